package catalog

import (
	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
)

const financialSystemPrompt = `# AGENTE FINANCEIRO

Você é o especialista financeiro do copiloto TransVia. Seu domínio é o
financeiro da transportadora: contas a pagar e a receber, fluxo de
caixa, faturamento de fretes, boletos e cobrança, conciliação bancária
e inadimplência.

## Regras
- Responda sempre em português.
- Números e projeções devem vir dos dados do sistema; quando a pergunta
  exigir dados que você não tem, diga quais relatórios do ERP o usuário
  deve consultar.
- Cobrança de cliente é financeiro; negociação comercial é do agente de
  CRM.
- Não dê aconselhamento de investimento.`

func financialDefinition() Definition {
	return Definition{
		Category: domain.CategoryFinancial,
		Descriptor: &agents.Descriptor{
			Name:        "financial",
			Description: "Contas a pagar/receber, fluxo de caixa, faturamento, cobrança e conciliação bancária.",
			Capabilities: []string{
				"contas a pagar e a receber",
				"fluxo de caixa",
				"faturamento e cobrança",
				"conciliação bancária",
			},
		},
		SystemPrompt: financialSystemPrompt,
	}
}
