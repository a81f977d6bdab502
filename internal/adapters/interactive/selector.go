package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
)

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectContract selects a contract from a list
func (s *SelectorAdapter) SelectContract(ctx context.Context, contracts []*domain.Artifact, prompt string) (*domain.Artifact, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(contracts) == 0 {
		return nil, fmt.Errorf("no contracts provided for selection")
	}

	if len(contracts) == 1 {
		return contracts[0], nil
	}

	options := formatContractOptions(contracts)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return contracts[index], nil
}

// Confirm asks a yes/no question. Non-interactive mode never confirms.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, nil
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}

	if _, err := p.Run(); err != nil {
		// promptui reports "n" as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// formatContractOptions creates display strings for contract selection
func formatContractOptions(contracts []*domain.Artifact) []string {
	options := make([]string, len(contracts))
	for i, contract := range contracts {
		name := color.New(color.FgWhite, color.Bold).Sprint(contract.Name)
		source := color.New(color.FgBlue).Sprint(contract.SourceName)
		if contract.CompilerVersion != "" {
			version, _, _ := strings.Cut(contract.CompilerVersion, "+")
			options[i] = fmt.Sprintf("%s (%s) %s", name, source, color.New(color.FgYellow).Sprintf("[solc %s]", version))
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, source)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.ContractSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer        = (*SelectorAdapter)(nil)
)
