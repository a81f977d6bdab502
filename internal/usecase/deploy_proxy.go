package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

// DeployStage names a step of a proxy deployment, as shown by progress sinks
type DeployStage string

const (
	StageResolving      DeployStage = "Resolving"
	StageConnecting     DeployStage = "Connecting"
	StageImplementation DeployStage = "Implementation"
	StageProxy          DeployStage = "Proxy"
	StageVerifying      DeployStage = "Verifying"
	StageCompleted      DeployStage = "Completed"
)

// DeployProxyParams override the [deploy] section for one run.
// Zero values fall back to the project configuration.
type DeployProxyParams struct {
	Network       string
	Contract      string
	Kind          string
	Initializer   string
	Confirmations uint64
	Params        domain.InitParams
}

// DeployProxy deploys an implementation contract behind an upgradeable proxy
// whose constructor runs the initializer
type DeployProxy struct {
	config    *config.RuntimeConfig
	networks  NetworkResolver
	contracts ContractResolver
	connector ChainConnector
	manifests ManifestRepository
	confirmer Confirmer
	sink      ProgressSink
	log       *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// NewDeployProxy creates a new DeployProxy use case
func NewDeployProxy(
	cfg *config.RuntimeConfig,
	networks NetworkResolver,
	contracts ContractResolver,
	connector ChainConnector,
	manifests ManifestRepository,
	confirmer Confirmer,
	sink ProgressSink,
	log *slog.Logger,
) *DeployProxy {
	return &DeployProxy{
		config:    cfg,
		networks:  networks,
		contracts: contracts,
		connector: connector,
		manifests: manifests,
		confirmer: confirmer,
		sink:      sink,
		log:       log.With("component", "deploy"),
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// deployPlan is everything resolved before touching the chain
type deployPlan struct {
	network      *domain.Network
	impl         *domain.Artifact
	proxy        *domain.Artifact
	kind         domain.ProxyKind
	initData     []byte
	initialOwner string

	confirmations uint64
}

// Run resolves the network and artifacts, then deploys the implementation
// (unless an identical one is already recorded and live) and the proxy.
func (uc *DeployProxy) Run(ctx context.Context, params DeployProxyParams) (*domain.DeployResult, error) {
	if uc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.Timeout)
		defer cancel()
	}

	runID := uc.newRunID()
	log := uc.log.With(slog.String("run_id", runID))

	uc.stage(ctx, StageResolving, "Resolving network and contracts")
	plan, err := uc.plan(ctx, params)
	if err != nil {
		return nil, err
	}
	log = log.With(slog.String("network", plan.network.Name), slog.String("kind", string(plan.kind)))
	log.Debug("deployment planned",
		slog.String("contract", plan.impl.QualifiedName()),
		slog.String("proxy_contract", plan.proxy.QualifiedName()),
		slog.Int("runtime_size", plan.impl.DeployedSize()),
	)

	uc.stage(ctx, StageConnecting, fmt.Sprintf("Connecting to %s", plan.network.Name))
	session, err := uc.connector.Connect(ctx, plan.network, SessionOptions{Confirmations: plan.confirmations})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	sender := session.Sender()
	log = log.With(slog.String("sender", sender.Hex()))

	if balance, err := session.Balance(ctx); err != nil {
		log.Warn("could not read sender balance", "error", err)
	} else if balance.Sign() == 0 {
		uc.sink.Info(fmt.Sprintf("Warning: %s has no funds on %s", sender.Hex(), plan.network.Name))
	}

	existing, err := uc.reusableImplementation(ctx, session, plan.impl)
	if err != nil {
		return nil, err
	}

	result := &domain.DeployResult{
		RunID:    runID,
		Contract: plan.impl.QualifiedName(),
		Network:  plan.network,
		Kind:     plan.kind,
		Sender:   sender.Hex(),
		DryRun:   uc.config.DryRun,
	}

	if uc.config.DryRun {
		return uc.predict(ctx, session, existing, result)
	}

	if err := uc.confirmBroadcast(ctx, plan.network, sender); err != nil {
		return nil, err
	}

	implAddress, err := uc.deployImplementation(ctx, session, plan, existing, result)
	if err != nil {
		return nil, err
	}
	log = log.With(slog.String("implementation", implAddress.Hex()))

	uc.stage(ctx, StageProxy, fmt.Sprintf("Deploying %s", plan.proxy.Name))
	proxyCode, err := uc.proxyDeployCode(plan, implAddress, sender)
	if err != nil {
		return nil, err
	}
	proxyReceipt, err := session.Deploy(ctx, plan.proxy.Name, proxyCode)
	if err != nil {
		return nil, err
	}
	result.Proxy = proxyReceipt.ContractAddress
	result.ProxyReceipt = proxyReceipt
	log.Info("proxy deployed", slog.String("proxy", result.Proxy), slog.String("tx_hash", proxyReceipt.TxHash))

	uc.stage(ctx, StageVerifying, "Checking proxy storage")
	admin, err := verifyProxySlots(ctx, session, plan.kind, common.HexToAddress(result.Proxy), implAddress)
	if err != nil {
		return nil, err
	}
	if admin != (common.Address{}) {
		result.Admin = admin.Hex()
	}

	record := &domain.ProxyRecord{
		Address:        result.Proxy,
		TxHash:         proxyReceipt.TxHash,
		Kind:           plan.kind,
		Contract:       plan.impl.QualifiedName(),
		Implementation: result.Implementation,
		Admin:          result.Admin,
		RunID:          runID,
		DeployedAt:     uc.now().UTC(),
	}
	if err := uc.manifests.SaveProxy(ctx, session.ChainID(), record); err != nil {
		return nil, fmt.Errorf("failed to record proxy: %w", err)
	}

	uc.stage(ctx, StageCompleted, "")
	return result, nil
}

// plan resolves configuration, artifacts and call data without network access
func (uc *DeployProxy) plan(ctx context.Context, params DeployProxyParams) (*deployPlan, error) {
	deployCfg := uc.config.Project.Deploy

	networkName := firstNonEmpty(params.Network, uc.config.NetworkName)
	network, err := uc.networks.ResolveNetwork(ctx, networkName)
	if err != nil {
		return nil, err
	}

	initParams := params.Params.Merge(deployCfg.Params)
	if err := initParams.Validate(); err != nil {
		return nil, fmt.Errorf("invalid initializer parameters: %w", err)
	}

	impl, err := uc.contracts.ResolveContract(ctx, firstNonEmpty(params.Contract, deployCfg.Contract))
	if err != nil {
		return nil, err
	}

	kind, err := domain.ParseProxyKind(firstNonEmpty(params.Kind, deployCfg.Kind))
	if err != nil {
		return nil, err
	}
	if kind == domain.ProxyKindAuto {
		kind = domain.DetectProxyKind(impl)
	}
	if kind == domain.ProxyKindUUPS && domain.DetectProxyKind(impl) != domain.ProxyKindUUPS {
		return nil, fmt.Errorf("%s is not UUPS upgradeable: upgradeToAndCall and proxiableUUID are required for kind uups", impl.Name)
	}

	initializer := firstNonEmpty(params.Initializer, deployCfg.Initializer)
	initData, err := impl.EncodeCall(initializer, initParams.Args()...)
	if err != nil {
		return nil, err
	}

	if !network.AllowUnlimitedContractSize && impl.DeployedSize() > domain.MaxCodeSize {
		return nil, domain.ContractTooLargeErr{
			Contract: impl.Name,
			Size:     impl.DeployedSize(),
			Limit:    domain.MaxCodeSize,
		}
	}

	proxy, err := uc.contracts.ResolveContract(ctx, kind.ProxyContract())
	if err != nil {
		return nil, fmt.Errorf("proxy contract: %w", err)
	}

	if deployCfg.InitialOwner != "" && kind == domain.ProxyKindTransparent {
		if err := domain.ValidateAddress(deployCfg.InitialOwner); err != nil {
			return nil, fmt.Errorf("initial_owner: %w", err)
		}
	}

	confirmations := params.Confirmations
	if confirmations == 0 {
		confirmations = deployCfg.Confirmations
	}

	return &deployPlan{
		network:       network,
		impl:          impl,
		proxy:         proxy,
		kind:          kind,
		initData:      initData,
		initialOwner:  deployCfg.InitialOwner,
		confirmations: confirmations,
	}, nil
}

// reusableImplementation returns the recorded implementation for the artifact's
// creation bytecode if its code is still on chain
func (uc *DeployProxy) reusableImplementation(ctx context.Context, session ChainSession, impl *domain.Artifact) (*domain.ImplementationRecord, error) {
	record, err := uc.manifests.FindImplementation(ctx, session.ChainID(), impl.BytecodeHash().Hex())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	live, err := session.HasCode(ctx, common.HexToAddress(record.Address))
	if err != nil {
		return nil, err
	}
	if !live {
		uc.log.Info("recorded implementation has no code, redeploying", slog.String("address", record.Address))
		return nil, nil
	}
	return record, nil
}

// predict fills a dry-run result from the sender's next nonces
func (uc *DeployProxy) predict(ctx context.Context, session ChainSession, existing *domain.ImplementationRecord, result *domain.DeployResult) (*domain.DeployResult, error) {
	creations := 2
	if existing != nil {
		creations = 1
	}

	predicted, err := session.PredictAddresses(ctx, creations)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		result.Implementation = existing.Address
		result.ImplementationReused = true
	} else {
		result.Implementation = predicted[0].Hex()
	}
	result.Proxy = predicted[len(predicted)-1].Hex()

	uc.stage(ctx, StageCompleted, "")
	return result, nil
}

// confirmBroadcast asks before sending transactions to a non-local network
func (uc *DeployProxy) confirmBroadcast(ctx context.Context, network *domain.Network, sender common.Address) error {
	if network.IsLocal() || uc.config.Yes || uc.config.NonInteractive {
		return nil
	}

	ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy to %s (chain %d) from %s", network.Name, network.ChainID, sender.Hex()))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}

func (uc *DeployProxy) deployImplementation(ctx context.Context, session ChainSession, plan *deployPlan, existing *domain.ImplementationRecord, result *domain.DeployResult) (common.Address, error) {
	if existing != nil {
		uc.sink.Info(fmt.Sprintf("Reusing %s implementation at %s", plan.impl.Name, existing.Address))
		result.Implementation = existing.Address
		result.ImplementationReused = true
		return common.HexToAddress(existing.Address), nil
	}

	uc.stage(ctx, StageImplementation, fmt.Sprintf("Deploying %s implementation", plan.impl.Name))
	receipt, err := session.Deploy(ctx, plan.impl.Name, plan.impl.Bytecode)
	if err != nil {
		return common.Address{}, err
	}
	result.Implementation = receipt.ContractAddress
	result.ImplementationReceipt = receipt

	record := &domain.ImplementationRecord{
		Address:      receipt.ContractAddress,
		TxHash:       receipt.TxHash,
		Contract:     plan.impl.QualifiedName(),
		BytecodeHash: plan.impl.BytecodeHash().Hex(),
		DeployedAt:   uc.now().UTC(),
	}
	if err := uc.manifests.SaveImplementation(ctx, session.ChainID(), record); err != nil {
		return common.Address{}, fmt.Errorf("failed to record implementation: %w", err)
	}

	return common.HexToAddress(receipt.ContractAddress), nil
}

// proxyDeployCode encodes the proxy constructor:
// ERC1967Proxy(impl, data) or TransparentUpgradeableProxy(impl, initialOwner, data)
func (uc *DeployProxy) proxyDeployCode(plan *deployPlan, impl, sender common.Address) ([]byte, error) {
	if plan.kind == domain.ProxyKindUUPS {
		return plan.proxy.DeployCode(impl, plan.initData)
	}

	owner := sender
	if plan.initialOwner != "" {
		owner = common.HexToAddress(plan.initialOwner)
	}
	return plan.proxy.DeployCode(impl, owner, plan.initData)
}

// verifyProxySlots checks the EIP-1967 implementation slot and returns the
// admin slot for transparent proxies
func verifyProxySlots(ctx context.Context, session ChainSession, kind domain.ProxyKind, proxy, impl common.Address) (common.Address, error) {
	word, err := session.StorageAt(ctx, proxy, domain.ImplementationSlot)
	if err != nil {
		return common.Address{}, err
	}
	if got := domain.SlotAddress(word); got != impl {
		return common.Address{}, fmt.Errorf("proxy %s points at %s, expected implementation %s", proxy.Hex(), got.Hex(), impl.Hex())
	}

	if kind != domain.ProxyKindTransparent {
		return common.Address{}, nil
	}

	word, err = session.StorageAt(ctx, proxy, domain.AdminSlot)
	if err != nil {
		return common.Address{}, err
	}
	admin := domain.SlotAddress(word)
	if admin == (common.Address{}) {
		return common.Address{}, fmt.Errorf("proxy %s has no admin set", proxy.Hex())
	}
	return admin, nil
}

func (uc *DeployProxy) stage(ctx context.Context, stage DeployStage, message string) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(stage),
		Message: message,
		Spinner: stage != StageCompleted,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
