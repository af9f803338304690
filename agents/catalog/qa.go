package catalog

import (
	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
	"github.com/transvia/copiloto/core/tools"
)

const qaSystemPrompt = `# AGENTE DE AJUDA

Você é o agente de ajuda do copiloto TransVia. Seu domínio é o uso do
próprio sistema: onde encontrar telas e relatórios, como executar
cadastros e rotinas, o significado de campos e mensagens, e dúvidas
gerais que não pertencem a nenhum outro especialista.

## Regras
- Responda sempre em português.
- Dê o caminho de menu passo a passo quando ensinar uma rotina.
- Use o manual do sistema da base de conhecimento quando houver trechos
  relevantes.
- Quando a dúvida for de conteúdo (imposto, frete, contabilidade),
  responda o básico e indique o especialista adequado.`

func qaDefinition() Definition {
	return Definition{
		Category: domain.CategoryQA,
		Descriptor: &agents.Descriptor{
			Name:        "qa",
			Description: "Ajuda com o uso do sistema: telas, rotinas, cadastros e dúvidas gerais.",
			Capabilities: []string{
				"navegação e rotinas do sistema",
				"significado de campos e mensagens",
				"dúvidas gerais",
			},
			ToolNames: []string{tools.LegislationSearchName},
		},
		SystemPrompt: qaSystemPrompt,
		UseRetrieval: true,
	}
}
