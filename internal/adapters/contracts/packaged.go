package contracts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenhaze-labs/hazedeploy/internal/domain"
)

// packagedProxyRoots are the node_modules directories the upgrades plugin
// deploys its proxies from, most preferred first. Projects that only compile
// their own contracts still have these installed.
var packagedProxyRoots = []string{
	"node_modules/@openzeppelin/upgrades-core/artifacts/@openzeppelin/contracts-v5",
	"node_modules/@openzeppelin/upgrades-core/artifacts",
	"node_modules/@openzeppelin/contracts/build/contracts",
}

// packagedProxyNames limits the node_modules walk to the proxy contracts
var packagedProxyNames = map[string]bool{
	domain.ProxyKindTransparent.ProxyContract(): true,
	domain.ProxyKindUUPS.ProxyContract():        true,
}

// indexPackagedProxies records proxy artifacts found under node_modules.
// The first root holding a proxy wins.
func (i *Indexer) indexPackagedProxies() error {
	for _, root := range packagedProxyRoots {
		dir := filepath.Join(i.projectRoot, filepath.FromSlash(root))
		if _, err := os.Stat(dir); err != nil {
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
			name := strings.TrimSuffix(d.Name(), ".json")
			if !packagedProxyNames[name] || i.packaged[name] != nil {
				return nil
			}

			artifact, _, err := readArtifact(path)
			if err != nil {
				i.log.Debug("skipping packaged artifact", "path", path, "error", err)
				return nil
			}
			if artifact != nil && artifact.Name == name {
				i.packaged[name] = artifact
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", root, err)
		}
	}
	return nil
}

// packagedProxy returns the node_modules proxy for a bare contract name
func (i *Indexer) packagedProxy(ref string) *domain.Artifact {
	if strings.Contains(ref, ":") {
		return nil
	}
	return i.packaged[ref]
}
