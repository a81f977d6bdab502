package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
)

var (
	labelStyle   = color.New(color.Faint)
	addressStyle = color.New(color.FgCyan)
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
)

// DeployRenderer prints the outcome of a proxy deployment
type DeployRenderer struct {
	out    io.Writer
	format Format
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, format Format) *DeployRenderer {
	return &DeployRenderer{out: out, format: format}
}

// Render writes the result. The text form always ends with the
// "<Contract> deployed to: <proxy>" line.
func (r *DeployRenderer) Render(result *domain.DeployResult) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(r.out, result)
	case FormatYAML:
		return writeYAML(r.out, result)
	}

	name := contractName(result.Contract)
	network := result.Network

	headerStyle.Fprintf(r.out, "%s proxy on %s (chain %d)\n", title(string(result.Kind)), network.Name, network.ChainID)
	r.field("Deployer", result.Sender, "")

	impl := result.Implementation
	if result.ImplementationReused {
		impl += " (reused)"
	}
	r.field("Implementation", impl, network.AddressURL(result.Implementation))
	if result.Admin != "" {
		r.field("Proxy admin", result.Admin, network.AddressURL(result.Admin))
	}
	if result.ProxyReceipt != nil {
		r.field("Transaction", result.ProxyReceipt.TxHash, network.TxURL(result.ProxyReceipt.TxHash))
		r.field("Block", fmt.Sprintf("%d", result.ProxyReceipt.BlockNumber), "")
	}
	fmt.Fprintln(r.out)

	if result.DryRun {
		fmt.Fprintf(r.out, "%s would be deployed to: %s (dry run, nothing was sent)\n", name, result.Proxy)
		return nil
	}

	fmt.Fprintf(r.out, "%s deployed to: %s\n", name, result.Proxy)
	return nil
}

func (r *DeployRenderer) field(label, value, url string) {
	labelStyle.Fprintf(r.out, "  %-15s", label+":")
	addressStyle.Fprint(r.out, value)
	if url != "" {
		labelStyle.Fprintf(r.out, "  %s", url)
	}
	fmt.Fprintln(r.out)
}

// contractName strips the source path from "path/File.sol:Name"
func contractName(qualified string) string {
	if i := strings.LastIndex(qualified, ":"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
