package deployments_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/greenhaze-labs/hazedeploy/internal/adapters/repository/deployments"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository(t *testing.T) {
	ctx := context.Background()
	deployedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	impl := &domain.ImplementationRecord{
		Address:      "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		TxHash:       "0x01",
		Contract:     "contracts/GreenHaze.sol:GreenHaze",
		BytecodeHash: "0xabc",
		DeployedAt:   deployedAt,
	}
	proxy := &domain.ProxyRecord{
		Address:        "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		TxHash:         "0x02",
		Kind:           domain.ProxyKindTransparent,
		Contract:       "contracts/GreenHaze.sol:GreenHaze",
		Implementation: impl.Address,
		Admin:          "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0",
		RunID:          "run-1",
		DeployedAt:     deployedAt,
	}

	t.Run("empty manifest when nothing recorded", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())

		manifest, err := repo.Load(ctx, 97)
		require.NoError(t, err)
		assert.Equal(t, uint64(97), manifest.ChainID)
		assert.Empty(t, manifest.Proxies)

		_, err = repo.FindImplementation(ctx, 97, "0xabc")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		manifests, err := repo.ListManifests(ctx)
		require.NoError(t, err)
		assert.Empty(t, manifests)
	})

	t.Run("records implementation and proxy", func(t *testing.T) {
		root := t.TempDir()
		repo := deployments.NewFileRepository(root)

		require.NoError(t, repo.SaveImplementation(ctx, 97, impl))
		require.NoError(t, repo.SaveProxy(ctx, 97, proxy))

		assert.FileExists(t, filepath.Join(root, ".openzeppelin", "bsc-testnet.json"))

		// a fresh repository reads what was written
		reopened := deployments.NewFileRepository(root)
		found, err := reopened.FindImplementation(ctx, 97, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, impl.Address, found.Address)
		assert.True(t, deployedAt.Equal(found.DeployedAt))

		manifest, err := reopened.Load(ctx, 97)
		require.NoError(t, err)
		require.Len(t, manifest.Proxies, 1)
		assert.Equal(t, proxy.Address, manifest.Proxies[0].Address)
		assert.Equal(t, domain.ProxyKindTransparent, manifest.Proxies[0].Kind)
		assert.Equal(t, domain.ManifestVersion, manifest.ManifestVersion)
	})

	t.Run("same proxy address is replaced", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())

		require.NoError(t, repo.SaveProxy(ctx, 1337, proxy))
		updated := *proxy
		updated.RunID = "run-2"
		require.NoError(t, repo.SaveProxy(ctx, 1337, &updated))

		manifest, err := repo.Load(ctx, 1337)
		require.NoError(t, err)
		require.Len(t, manifest.Proxies, 1)
		assert.Equal(t, "run-2", manifest.Proxies[0].RunID)
	})

	t.Run("lists manifests by chain", func(t *testing.T) {
		root := t.TempDir()
		repo := deployments.NewFileRepository(root)

		require.NoError(t, repo.SaveProxy(ctx, 97, proxy))
		require.NoError(t, repo.SaveProxy(ctx, 1337, proxy))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".openzeppelin", "notes.txt"), []byte("x"), 0644))

		manifests, err := repo.ListManifests(ctx)
		require.NoError(t, err)
		require.Len(t, manifests, 2)
		assert.Equal(t, uint64(97), manifests[0].ChainID)
		assert.Equal(t, uint64(1337), manifests[1].ChainID)
		assert.FileExists(t, filepath.Join(root, ".openzeppelin", "unknown-1337.json"))
	})

	t.Run("rejects manifest for another chain", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, ".openzeppelin")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bsc-testnet.json"), []byte(`{"manifestVersion":"3.2","chainId":56,"impls":{},"proxies":[]}`), 0644))

		_, err := deployments.NewFileRepository(root).Load(ctx, 97)
		assert.ErrorIs(t, err, domain.ErrChainIDMismatch)
	})

	t.Run("keeps fields written by the upgrades plugin", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, ".openzeppelin")
		require.NoError(t, os.MkdirAll(dir, 0755))
		pluginManifest := `{
  "manifestVersion": "3.2",
  "admin": {
    "address": "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0",
    "txHash": "0x10"
  },
  "proxies": [
    {
      "address": "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9",
      "txHash": "0x11",
      "kind": "transparent"
    }
  ],
  "impls": {
    "abc123": {
      "address": "0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9",
      "txHash": "0x12",
      "layout": {
        "storage": [{"label": "_owner", "slot": "0", "type": "t_address"}],
        "types": {"t_address": {"label": "address"}}
      },
      "allAddresses": ["0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9"]
    }
  }
}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bsc-testnet.json"), []byte(pluginManifest), 0644))

		repo := deployments.NewFileRepository(root)
		manifests, err := repo.ListManifests(ctx)
		require.NoError(t, err)
		require.Len(t, manifests, 1)
		assert.Equal(t, uint64(97), manifests[0].ChainID)

		require.NoError(t, repo.SaveProxy(ctx, 97, proxy))

		data, err := os.ReadFile(filepath.Join(dir, "bsc-testnet.json"))
		require.NoError(t, err)

		var written struct {
			Admin   map[string]string `json:"admin"`
			Proxies []map[string]any  `json:"proxies"`
			Impls   map[string]map[string]json.RawMessage
		}
		require.NoError(t, json.Unmarshal(data, &written))

		assert.Equal(t, "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0", written.Admin["address"])
		require.Len(t, written.Proxies, 2)
		assert.Equal(t, "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9", written.Proxies[0]["address"])
		assert.NotContains(t, written.Proxies[0], "deployedAt")
		assert.Equal(t, proxy.Address, written.Proxies[1]["address"])

		old := written.Impls["abc123"]
		require.NotNil(t, old)
		assert.Contains(t, old, "layout")
		assert.Contains(t, old, "allAddresses")
		assert.NotContains(t, old, "bytecodeHash")
		assert.NotContains(t, old, "deployedAt")
		assert.JSONEq(t, `"0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9"`, string(old["address"]))

		// the layout is still a readable object after the rewrite
		var layout map[string]any
		require.NoError(t, json.Unmarshal(old["layout"], &layout))
		assert.Contains(t, layout, "storage")
		assert.Contains(t, layout, "types")

		found, err := repo.FindImplementation(ctx, 97, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9", found.Address)
		assert.Contains(t, found.Extra, "layout")
	})

	t.Run("concurrent writes are serialized", func(t *testing.T) {
		repo := deployments.NewFileRepository(t.TempDir())

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p := *proxy
				p.Address = common20(i)
				assert.NoError(t, repo.SaveProxy(ctx, 97, &p))
			}(i)
		}
		wg.Wait()

		manifest, err := repo.Load(ctx, 97)
		require.NoError(t, err)
		assert.Len(t, manifest.Proxies, 10)
	})
}

// common20 returns a distinct address per index
func common20(i int) string {
	const hex = "0123456789"
	return "0x00000000000000000000000000000000000000" + string(hex[i]) + "0"
}
