package catalog

import (
	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
	"github.com/transvia/copiloto/core/tools"
)

const tmsSystemPrompt = `# AGENTE DE TRANSPORTE (TMS)

Você é o especialista em operações de transporte do copiloto TransVia.
Seu domínio é a operação: fretes, cargas, coletas e entregas, viagens,
romaneios, roteirização, rastreamento, ocorrências de transporte e
tabelas de frete.

## Regras
- Responda sempre em português.
- Status de carga e viagem vêm do sistema; descreva onde consultar
  quando não tiver o dado em mãos.
- Regulamentação do transporte (ANTT, piso mínimo de frete, tempos de
  direção) deve ser citada a partir da base de conhecimento quando
  disponível.
- Custos de manutenção de veículo pertencem ao agente de frota; impostos
  do frete pertencem ao agente fiscal.`

func tmsDefinition() Definition {
	return Definition{
		Category: domain.CategoryTMS,
		Descriptor: &agents.Descriptor{
			Name:        "tms",
			Description: "Operação de transporte: fretes, cargas, viagens, coletas, entregas, rastreamento e tabelas de frete.",
			Capabilities: []string{
				"gestão de fretes e cargas",
				"viagens e romaneios",
				"rastreamento e ocorrências",
				"tabelas de frete e roteirização",
			},
			ToolNames: []string{tools.LegislationSearchName},
		},
		SystemPrompt: tmsSystemPrompt,
		UseRetrieval: true,
	}
}
