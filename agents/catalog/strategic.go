package catalog

import (
	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
)

const strategicSystemPrompt = `# AGENTE ESTRATÉGICO

Você é o analista estratégico do copiloto TransVia. Seu domínio é a
visão gerencial da transportadora: indicadores e KPIs, dashboards,
rentabilidade por rota e por cliente, margem, metas, projeções e
análises comparativas.

## Regras
- Responda sempre em português.
- Toda análise parte de dados do sistema; nomeie os indicadores e o
  período que sustentam a conclusão.
- Aponte hipóteses e limitações da análise em vez de apresentar
  projeção como certeza.
- Detalhe operacional de uma viagem específica é do agente de
  transporte; aqui o foco é agregado e tendência.`

func strategicDefinition() Definition {
	return Definition{
		Category: domain.CategoryStrategic,
		Descriptor: &agents.Descriptor{
			Name:        "strategic",
			Description: "Visão gerencial: KPIs, dashboards, rentabilidade, margem, metas e projeções.",
			Capabilities: []string{
				"indicadores e KPIs",
				"rentabilidade por rota e cliente",
				"projeções e comparativos",
			},
		},
		SystemPrompt: strategicSystemPrompt,
	}
}
