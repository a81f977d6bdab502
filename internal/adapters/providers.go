package adapters

import (
	"github.com/google/wire"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/blockchain"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/contracts"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/fs"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/interactive"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/network"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/repository/deployments"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/resolvers"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.ManifestRepository), new(*deployments.FileRepository)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),

	fs.NewSecretStoreAdapter,
	wire.Bind(new(usecase.SecretStore), new(*fs.SecretStoreAdapter)),
)

// ContractsSet provides artifact lookup
var ContractsSet = wire.NewSet(
	contracts.NewIndexer,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Indexer)),

	resolvers.NewContractResolver,
	wire.Bind(new(usecase.ContractResolver), new(*resolvers.ContractResolver)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	network.NewResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*network.Resolver)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ContractsSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
)
