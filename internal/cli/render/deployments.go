package render

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	chainHeader      = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold  = color.New(color.BgCyan, color.FgBlack, color.Bold)
	timestampStyle   = color.New(color.Faint)
	uupsStyle        = color.New(color.FgMagenta)
	transparentStyle = color.New(color.FgGreen)
)

// DeploymentsRenderer renders recorded proxies grouped by chain
type DeploymentsRenderer struct {
	out    io.Writer
	format Format
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format Format) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:    out,
		format: format,
	}
}

type deploymentView struct {
	ChainID        uint64           `json:"chainId" yaml:"chainId"`
	Address        string           `json:"address" yaml:"address"`
	Kind           domain.ProxyKind `json:"kind" yaml:"kind"`
	Contract       string           `json:"contract" yaml:"contract"`
	Implementation string           `json:"implementation" yaml:"implementation"`
	Admin          string           `json:"admin,omitempty" yaml:"admin,omitempty"`
	TxHash         string           `json:"txHash" yaml:"txHash"`
	DeployedAt     string           `json:"deployedAt" yaml:"deployedAt"`
}

// RenderDeploymentList renders the listing in the configured format
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if r.format != FormatText {
		views := make([]deploymentView, 0, len(result.Deployments))
		for _, entry := range result.Deployments {
			p := entry.Proxy
			views = append(views, deploymentView{
				ChainID:        entry.ChainID,
				Address:        p.Address,
				Kind:           p.Kind,
				Contract:       p.Contract,
				Implementation: p.Implementation,
				Admin:          p.Admin,
				TxHash:         p.TxHash,
				DeployedAt:     p.DeployedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
		if r.format == FormatYAML {
			return writeYAML(r.out, views)
		}
		return writeJSON(r.out, views)
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := make(map[uint64][]usecase.DeploymentEntry)
	for _, entry := range result.Deployments {
		byChain[entry.ChainID] = append(byChain[entry.ChainID], entry)
	}
	chainIDs := make([]uint64, 0, len(byChain))
	for chainID := range byChain {
		chainIDs = append(chainIDs, chainID)
	}
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	for _, chainID := range chainIDs {
		label := fmt.Sprintf("%-10s", "chain:")
		value := fmt.Sprintf("%-40s", fmt.Sprintf("%d  %s", chainID, domain.ManifestFileName(chainID)))
		fmt.Fprintf(r.out, "%s%s\n", chainHeader.Sprintf(" ⛓ %s ", label), chainHeaderBold.Sprint(value))

		r.renderTable(byChain[chainID])
		fmt.Fprintln(r.out)
	}

	r.renderSummary(result.Summary)
	return nil
}

func (r *DeploymentsRenderer) renderTable(entries []usecase.DeploymentEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateRows = false
	t.AppendHeader(table.Row{"Contract", "Kind", "Proxy", "Implementation", "Deployed"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignCenter},
	})

	for _, entry := range entries {
		p := entry.Proxy
		t.AppendRow(table.Row{
			contractName(p.Contract),
			kindLabel(p.Kind),
			addressStyle.Sprint(p.Address),
			p.Implementation,
			deployedAtLabel(p.DeployedAt),
		})
	}
	t.Render()
}

func (r *DeploymentsRenderer) renderSummary(summary usecase.DeploymentSummary) {
	headerStyle.Fprintf(r.out, "Total: %d proxies", summary.Total)
	fmt.Fprintf(r.out, " (%d transparent, %d uups) across %d chains, %d implementations recorded\n",
		summary.ByKind[domain.ProxyKindTransparent],
		summary.ByKind[domain.ProxyKindUUPS],
		len(summary.ByChain),
		summary.Implementations,
	)
}

func kindLabel(kind domain.ProxyKind) string {
	if kind == domain.ProxyKindUUPS {
		return uupsStyle.Sprint("UUPS")
	}
	return transparentStyle.Sprint(title(string(kind)))
}

// deployedAtLabel shows "-" for proxies recorded by tools that keep no timestamp
func deployedAtLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return timestampStyle.Sprint(t.Local().Format("2006-01-02 15:04"))
}
