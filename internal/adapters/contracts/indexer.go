package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/sahilm/fuzzy"
)

// Indexer discovers compiled artifacts under the configured artifact roots.
// Both the hardhat layout (artifacts/) and the foundry layout (out/) are read.
type Indexer struct {
	projectRoot string
	roots       []string
	log         *slog.Logger

	mu       sync.RWMutex
	indexed  bool
	byQName  map[string]*domain.Artifact   // key: "source:Name"
	byName   map[string][]*domain.Artifact // key: contract name
	unlinked map[string]string             // key: "source:Name", value: artifact path
	packaged map[string]*domain.Artifact   // key: contract name, proxies shipped in node_modules
}

// NewIndexer creates a new artifact indexer
func NewIndexer(cfg *config.RuntimeConfig, log *slog.Logger) *Indexer {
	return &Indexer{
		projectRoot: cfg.ProjectRoot,
		roots:       cfg.Project.Paths.Artifacts,
		log:         log.With("component", "contracts"),
	}
}

// Index walks every artifact root. Roots that don't exist are skipped.
func (i *Indexer) Index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.byQName = make(map[string]*domain.Artifact)
	i.byName = make(map[string][]*domain.Artifact)
	i.unlinked = make(map[string]string)
	i.packaged = make(map[string]*domain.Artifact)

	for _, root := range i.roots {
		dir := root
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(i.projectRoot, root)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}
			return i.processArtifact(path)
		})
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", root, err)
		}
	}

	if err := i.indexPackagedProxies(); err != nil {
		return err
	}

	i.indexed = true
	i.log.Debug("indexed artifacts", "count", len(i.byQName), "roots", i.roots, "packaged", len(i.packaged))
	return nil
}

// rawArtifact covers both the hardhat and the foundry artifact shapes
type rawArtifact struct {
	ContractName           string          `json:"contractName"`
	SourceName             string          `json:"sourceName"`
	ABI                    json.RawMessage `json:"abi"`
	Bytecode               json.RawMessage `json:"bytecode"`
	DeployedBytecode       json.RawMessage `json:"deployedBytecode"`
	LinkReferences         json.RawMessage `json:"linkReferences"`
	DeployedLinkReferences json.RawMessage `json:"deployedLinkReferences"`
	Metadata               json.RawMessage `json:"metadata"`
}

type foundryBytecode struct {
	Object         string          `json:"object"`
	LinkReferences json.RawMessage `json:"linkReferences"`
}

type foundryMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// errNeedsLinking marks artifacts whose bytecode still has library placeholders
var errNeedsLinking = errors.New("needs library linking")

// processArtifact adds a single artifact file to the index. Files that are
// not contract artifacts are ignored.
func (i *Indexer) processArtifact(path string) error {
	artifact, qname, err := readArtifact(path)
	if errors.Is(err, errNeedsLinking) {
		i.unlinked[qname] = path
		return nil
	}
	if err != nil || artifact == nil {
		return err
	}

	if _, exists := i.byQName[qname]; exists {
		// The same contract compiled into both roots; the first root wins
		return nil
	}

	i.byQName[qname] = artifact
	i.byName[artifact.Name] = append(i.byName[artifact.Name], artifact)
	return nil
}

// readArtifact decodes one artifact file. It returns a nil artifact for JSON
// files that are not deployable contracts.
func readArtifact(path string) (*domain.Artifact, string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // walked from artifact roots
	if err != nil {
		return nil, "", err
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil || len(raw.ABI) == 0 || len(raw.Bytecode) == 0 {
		return nil, "", nil
	}

	creation, creationLinks := decodeBytecodeField(raw.Bytecode)
	deployed, _ := decodeBytecodeField(raw.DeployedBytecode)

	name, source := raw.ContractName, raw.SourceName
	var compiler string
	if meta, ok := decodeMetadata(raw.Metadata); ok {
		compiler = meta.Compiler.Version
		for s, n := range meta.Settings.CompilationTarget {
			source, name = s, n
		}
	}
	if name == "" || source == "" {
		return nil, "", nil
	}
	qname := source + ":" + name

	// Interfaces and abstract contracts have no creation code
	if creation == "" || creation == "0x" {
		return nil, "", nil
	}

	if hasLinks(raw.LinkReferences) || hasLinks(creationLinks) || strings.Contains(creation, "__") {
		return nil, qname, errNeedsLinking
	}

	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, "", fmt.Errorf("invalid ABI in %s: %w", path, err)
	}
	code, err := hexutil.Decode(ensure0x(creation))
	if err != nil {
		return nil, "", fmt.Errorf("invalid bytecode in %s: %w", path, err)
	}
	var runtime []byte
	if deployed != "" && deployed != "0x" {
		if runtime, err = hexutil.Decode(ensure0x(deployed)); err != nil {
			return nil, "", fmt.Errorf("invalid deployed bytecode in %s: %w", path, err)
		}
	}

	return &domain.Artifact{
		Name:             name,
		SourceName:       source,
		Path:             path,
		ABI:              parsedABI,
		Bytecode:         code,
		DeployedBytecode: runtime,
		CompilerVersion:  compiler,
	}, qname, nil
}

// decodeBytecodeField accepts "0x.." (hardhat) or {"object": ".."} (foundry)
func decodeBytecodeField(raw json.RawMessage) (string, json.RawMessage) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj foundryBytecode
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Object, obj.LinkReferences
	}
	return "", nil
}

// decodeMetadata accepts metadata as an object or as a JSON encoded string
func decodeMetadata(raw json.RawMessage) (*foundryMetadata, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var meta foundryMetadata
	if err := json.Unmarshal(raw, &meta); err == nil {
		return &meta, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &meta); err == nil {
			return &meta, true
		}
	}
	return nil, false
}

func hasLinks(raw json.RawMessage) bool {
	var refs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &refs); err != nil {
		return false
	}
	return len(refs) > 0
}

func ensure0x(s string) string {
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}

func (i *Indexer) ensureIndexed() error {
	i.mu.RLock()
	indexed := i.indexed
	i.mu.RUnlock()
	if indexed {
		return nil
	}
	return i.Index()
}

// FindArtifacts returns every artifact matching "Name", "source:Name" or "File.sol:Name"
func (i *Indexer) FindArtifacts(ctx context.Context, ref string) ([]*domain.Artifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	var matches []*domain.Artifact
	if source, name, ok := strings.Cut(ref, ":"); ok {
		for _, a := range i.byName[name] {
			if a.SourceName == source || filepath.Base(a.SourceName) == source {
				matches = append(matches, a)
			}
		}
	} else {
		matches = append(matches, i.byName[ref]...)
	}

	if len(matches) > 0 {
		return matches, nil
	}

	if packaged := i.packagedProxy(ref); packaged != nil {
		i.log.Debug("using packaged proxy artifact", "contract", ref, "path", packaged.Path)
		return []*domain.Artifact{packaged}, nil
	}

	for qname, path := range i.unlinked {
		if qname == ref || strings.HasSuffix(qname, ":"+ref) {
			return nil, fmt.Errorf("%s (%s) needs library linking, which is not supported", ref, path)
		}
	}

	return nil, domain.NoContractsMatchErr{Ref: ref, Suggestions: i.suggest(ref)}
}

// ListArtifacts returns all deployable artifacts sorted by qualified name
func (i *Indexer) ListArtifacts(ctx context.Context) ([]*domain.Artifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	artifacts := make([]*domain.Artifact, 0, len(i.byQName))
	for _, a := range i.byQName {
		artifacts = append(artifacts, a)
	}
	sort.Slice(artifacts, func(a, b int) bool {
		return artifacts[a].QualifiedName() < artifacts[b].QualifiedName()
	})
	return artifacts, nil
}

// suggest returns up to three contract names close to ref
func (i *Indexer) suggest(ref string) []string {
	if _, name, ok := strings.Cut(ref, ":"); ok {
		ref = name
	}
	names := make([]string, 0, len(i.byName))
	for name := range i.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, m := range fuzzy.Find(ref, names) {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactRepository = (*Indexer)(nil)
