package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	format Format
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, format Format) *NetworksRenderer {
	return &NetworksRenderer{
		out:    out,
		format: format,
	}
}

type networkView struct {
	Name                       string   `json:"name" yaml:"name"`
	ChainID                    uint64   `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	RPCURL                     string   `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	Local                      bool     `json:"local" yaml:"local"`
	Current                    bool     `json:"current" yaml:"current"`
	Accounts                   []string `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	AllowUnlimitedContractSize bool     `json:"allowUnlimitedContractSize" yaml:"allowUnlimitedContractSize"`
	Error                      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if r.format != FormatText {
		views := make([]networkView, 0, len(result.Networks))
		for _, n := range result.Networks {
			view := networkView{
				Name:                       n.Name,
				ChainID:                    n.ChainID,
				RPCURL:                     n.RPCURL,
				Local:                      n.Local,
				Current:                    n.Name == result.Current,
				Accounts:                   n.Accounts,
				AllowUnlimitedContractSize: n.AllowUnlimitedContractSize,
			}
			if n.Error != nil {
				view.Error = n.Error.Error()
			}
			views = append(views, view)
		}
		if r.format == FormatYAML {
			return writeYAML(r.out, views)
		}
		return writeJSON(r.out, views)
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in hazedeploy.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := "  "
		if network.Name == result.Current {
			marker = color.New(color.FgGreen, color.Bold).Sprint("* ")
		}

		if network.Error != nil {
			fmt.Fprintf(r.out, "%s❌ %s - Error: %v\n", marker, network.Name, network.Error)
			continue
		}

		var notes []string
		if network.Local {
			notes = append(notes, "local")
		}
		if network.AllowUnlimitedContractSize {
			notes = append(notes, "unlimited contract size")
		}
		if len(network.Accounts) > 0 {
			notes = append(notes, "key from $"+strings.Join(network.Accounts, ", $"))
		}

		fmt.Fprintf(r.out, "%s✅ %s - Chain ID: %d", marker, network.Name, network.ChainID)
		if len(notes) > 0 {
			color.New(color.Faint).Fprintf(r.out, " (%s)", strings.Join(notes, ", "))
		}
		fmt.Fprintln(r.out)
	}

	return nil
}
