package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// ManifestDir holds one manifest file per chain, shared with the OpenZeppelin upgrades plugins
const ManifestDir = ".openzeppelin"

// FileRepository stores deployment manifests as JSON files
type FileRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewFileRepository creates a repository rooted at <rootDir>/.openzeppelin.
// The directory is created on first write.
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{dir: filepath.Join(rootDir, ManifestDir)}
}

// NewFileRepositoryFromConfig creates a new FileRepository from RuntimeConfig
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.ProjectRoot)
}

// Load returns the manifest for a chain, or an empty one if none exists yet
func (m *FileRepository) Load(ctx context.Context, chainID uint64) (*domain.Manifest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.load(chainID)
}

func (m *FileRepository) load(chainID uint64) (*domain.Manifest, error) {
	path := m.path(chainID)
	manifest, err := m.loadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewManifest(chainID), nil
	}
	if err != nil {
		return nil, err
	}
	if manifest.ChainID != 0 && manifest.ChainID != chainID {
		return nil, fmt.Errorf("%w: %s is for chain %d, expected %d", domain.ErrChainIDMismatch, path, manifest.ChainID, chainID)
	}
	manifest.ChainID = chainID
	return manifest, nil
}

// loadFile reads and decodes one manifest file
func (m *FileRepository) loadFile(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path derived from chain ID
	if err != nil {
		return nil, err
	}

	var manifest domain.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if manifest.Implementations == nil {
		manifest.Implementations = make(map[string]*domain.ImplementationRecord)
	}
	return &manifest, nil
}

// ListManifests returns every manifest in the directory, ordered by chain ID
func (m *FileRepository) ListManifests(ctx context.Context) ([]*domain.Manifest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", m.dir, err)
	}

	var manifests []*domain.Manifest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		manifest, err := m.loadFile(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if manifest.ChainID == 0 {
			// written by another tool without a chain ID
			chainID, ok := domain.ChainIDFromManifestFileName(entry.Name())
			if !ok {
				continue
			}
			manifest.ChainID = chainID
		}
		manifests = append(manifests, manifest)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].ChainID < manifests[j].ChainID
	})
	return manifests, nil
}

// FindImplementation looks up an implementation by creation bytecode hash
func (m *FileRepository) FindImplementation(ctx context.Context, chainID uint64, bytecodeHash string) (*domain.ImplementationRecord, error) {
	manifest, err := m.Load(ctx, chainID)
	if err != nil {
		return nil, err
	}
	record, ok := manifest.Implementations[bytecodeHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

// SaveImplementation records an implementation under its bytecode hash
func (m *FileRepository) SaveImplementation(ctx context.Context, chainID uint64, record *domain.ImplementationRecord) error {
	return m.update(chainID, func(manifest *domain.Manifest) {
		manifest.Implementations[record.BytecodeHash] = record
	})
}

// SaveProxy appends a proxy, replacing an earlier record at the same address
func (m *FileRepository) SaveProxy(ctx context.Context, chainID uint64, record *domain.ProxyRecord) error {
	return m.update(chainID, func(manifest *domain.Manifest) {
		for i, existing := range manifest.Proxies {
			if strings.EqualFold(existing.Address, record.Address) {
				manifest.Proxies[i] = record
				return
			}
		}
		manifest.Proxies = append(manifest.Proxies, record)
	})
}

// update applies fn to a chain's manifest and writes it back. Fields the
// manifest carries for other tools are written back untouched.
func (m *FileRepository) update(chainID uint64, fn func(*domain.Manifest)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	manifest, err := m.load(chainID)
	if err != nil {
		return err
	}
	fn(manifest)
	return m.saveFile(m.path(chainID), manifest)
}

// saveFile writes a manifest through a temp file and rename
func (m *FileRepository) saveFile(path string, manifest *domain.Manifest) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", ManifestDir, err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func (m *FileRepository) path(chainID uint64) string {
	return filepath.Join(m.dir, domain.ManifestFileName(chainID))
}

var _ usecase.ManifestRepository = (*FileRepository)(nil)
