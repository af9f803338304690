package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/transvia/copiloto/agents/catalog"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Lista os agentes especializados disponíveis",
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, _ []string) error {
	definitions := catalog.Definitions()
	w := cmd.OutOrStdout()

	if outputJSON {
		descriptors := make([]any, 0, len(definitions))
		for _, def := range definitions {
			descriptors = append(descriptors, def.Descriptor)
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(descriptors)
	}

	for _, def := range definitions {
		fmt.Fprintf(w, "%s (%s)\n", def.Descriptor.Name, def.Category)
		fmt.Fprintf(w, "  %s\n", def.Descriptor.Description)
		if len(def.Descriptor.Capabilities) > 0 {
			fmt.Fprintf(w, "  Capacidades: %s\n", strings.Join(def.Descriptor.Capabilities, "; "))
		}
		if len(def.Descriptor.ToolNames) > 0 {
			fmt.Fprintf(w, "  Ferramentas: %s\n", strings.Join(def.Descriptor.ToolNames, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}
