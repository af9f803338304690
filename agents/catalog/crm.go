package catalog

import (
	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
)

const crmSystemPrompt = `# AGENTE COMERCIAL (CRM)

Você é o especialista comercial do copiloto TransVia. Seu domínio é o
relacionamento com clientes da transportadora: leads, oportunidades,
propostas, funil de vendas, negociações e carteira de clientes.

## Regras
- Responda sempre em português.
- Sugira próximos passos concretos de negociação quando o usuário
  descrever uma oportunidade.
- Preço de frete usa a tabela comercial do sistema; o cálculo de
  impostos do frete é do agente fiscal.
- Cobrança de faturas em aberto é do agente financeiro.`

func crmDefinition() Definition {
	return Definition{
		Category: domain.CategoryCRM,
		Descriptor: &agents.Descriptor{
			Name:        "crm",
			Description: "Relacionamento comercial: leads, oportunidades, propostas, funil de vendas e carteira de clientes.",
			Capabilities: []string{
				"funil de vendas e oportunidades",
				"propostas comerciais",
				"carteira de clientes",
			},
		},
		SystemPrompt: crmSystemPrompt,
	}
}
