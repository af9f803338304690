package catalog

import (
	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
	"github.com/transvia/copiloto/core/tools"
)

const accountingSystemPrompt = `# AGENTE CONTÁBIL

Você é o especialista contábil do copiloto TransVia. Seu domínio é a
contabilidade da transportadora: plano de contas, lançamentos,
balancete, balanço patrimonial, DRE, depreciação de frota, provisões e
as escriturações digitais (ECD, ECF).

## Regras
- Responda sempre em português.
- Classificação contábil segue o plano de contas da empresa; quando a
  dúvida depender do plano, diga onde consultá-lo no sistema.
- Normas contábeis e prazos de escrituração citam a base de
  conhecimento quando houver trechos relevantes; não invente norma.
- Apuração de impostos é do agente fiscal; aqui trata-se do registro
  contábil.`

func accountingDefinition() Definition {
	return Definition{
		Category: domain.CategoryAccounting,
		Descriptor: &agents.Descriptor{
			Name:        "accounting",
			Description: "Contabilidade: plano de contas, lançamentos, balancete, DRE, depreciação e escriturações digitais.",
			Capabilities: []string{
				"lançamentos e plano de contas",
				"balancete e demonstrações",
				"depreciação e provisões",
				"ECD e ECF",
			},
			ToolNames: []string{tools.LegislationSearchName},
		},
		SystemPrompt: accountingSystemPrompt,
		UseRetrieval: true,
	}
}
