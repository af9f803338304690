package domain

import (
	"fmt"
	"strings"
	"time"
)

// KeywordRule binds a normalized term to a positive weight. A message that
// contains the term contributes the weight to the rule's category, once.
type KeywordRule struct {
	Term   string `yaml:"term"`
	Weight int    `yaml:"weight"`
}

// RouterConfig is the static table set the router and retrieval pipeline are
// built from. Loaded once at startup, validated, never mutated afterward.
type RouterConfig struct {
	Keywords        map[Category][]KeywordRule
	DefaultCategory Category

	// Retrieval tuning. ScoreThreshold is the minimum relevance a passage
	// must reach to be included; 0.35 matches the legacy service.
	ScoreThreshold float64
	ContextBudget  int
	DefaultTopK    int

	ClassifyCacheSize int
	RetrievalCacheTTL time.Duration

	CollaboratorTimeout time.Duration
	ChatTimeout         time.Duration
}

func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Keywords:            DefaultKeywords(),
		DefaultCategory:     CategoryFiscal,
		ScoreThreshold:      0.35,
		ContextBudget:       4000,
		DefaultTopK:         5,
		ClassifyCacheSize:   2048,
		RetrievalCacheTTL:   60 * time.Second,
		CollaboratorTimeout: 10 * time.Second,
		ChatTimeout:         30 * time.Second,
	}
}

// DefaultKeywords returns the central keyword table, one entry per category.
// Terms are Portuguese ERP vocabulary, stored lowercase; matching is plain
// substring containment on the lowercased message.
func DefaultKeywords() map[Category][]KeywordRule {
	return map[Category][]KeywordRule{
		CategoryFiscal:     fiscalKeywords(),
		CategoryFinancial:  financialKeywords(),
		CategoryTMS:        tmsKeywords(),
		CategoryCRM:        crmKeywords(),
		CategoryFleet:      fleetKeywords(),
		CategoryAccounting: accountingKeywords(),
		CategoryStrategic:  strategicKeywords(),
		CategoryQA:         qaKeywords(),
	}
}

func fiscalKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "icms", Weight: 3},
		{Term: "iss", Weight: 2},
		{Term: "pis", Weight: 2},
		{Term: "cofins", Weight: 2},
		{Term: "cte", Weight: 2},
		{Term: "ct-e", Weight: 2},
		{Term: "nfe", Weight: 2},
		{Term: "nf-e", Weight: 2},
		{Term: "mdfe", Weight: 2},
		{Term: "sped", Weight: 2},
		{Term: "imposto", Weight: 2},
		{Term: "tributo", Weight: 2},
		{Term: "tributá", Weight: 2},
		{Term: "alíquota", Weight: 2},
		{Term: "aliquota", Weight: 2},
		{Term: "substituição tributária", Weight: 2},
		{Term: "difal", Weight: 2},
		{Term: "fiscal", Weight: 1},
		{Term: "nota fiscal", Weight: 2},
		{Term: "cfop", Weight: 2},
		{Term: "benefício fiscal", Weight: 2},
	}
}

func financialKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "contas a pagar", Weight: 3},
		{Term: "contas a receber", Weight: 3},
		{Term: "fluxo de caixa", Weight: 3},
		{Term: "boleto", Weight: 2},
		{Term: "cobrança", Weight: 2},
		{Term: "fatura", Weight: 2},
		{Term: "faturamento", Weight: 2},
		{Term: "inadimpl", Weight: 2},
		{Term: "conciliação", Weight: 2},
		{Term: "pagamento", Weight: 1},
		{Term: "recebimento", Weight: 1},
		{Term: "financeiro", Weight: 1},
		{Term: "juros", Weight: 1},
		{Term: "banco", Weight: 1},
	}
}

func tmsKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "frete", Weight: 2},
		{Term: "carga", Weight: 2},
		{Term: "rastrear", Weight: 2},
		{Term: "rastreamento", Weight: 2},
		{Term: "viagem", Weight: 2},
		{Term: "coleta", Weight: 2},
		{Term: "entrega", Weight: 2},
		{Term: "embarque", Weight: 2},
		{Term: "romaneio", Weight: 2},
		{Term: "roteiriza", Weight: 2},
		{Term: "ocorrência de transporte", Weight: 2},
		{Term: "tabela de frete", Weight: 2},
		{Term: "motorista", Weight: 1},
		{Term: "transportadora", Weight: 1},
		{Term: "destinatário", Weight: 1},
		{Term: "remetente", Weight: 1},
	}
}

func crmKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "cliente", Weight: 2},
		{Term: "lead", Weight: 2},
		{Term: "oportunidade", Weight: 2},
		{Term: "proposta", Weight: 2},
		{Term: "funil de vendas", Weight: 3},
		{Term: "pipeline comercial", Weight: 3},
		{Term: "negociação", Weight: 2},
		{Term: "atendimento", Weight: 1},
		{Term: "comercial", Weight: 1},
		{Term: "prospect", Weight: 2},
		{Term: "carteira de clientes", Weight: 2},
	}
}

func fleetKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "frota", Weight: 3},
		{Term: "veículo", Weight: 2},
		{Term: "veiculo", Weight: 2},
		{Term: "caminhão", Weight: 2},
		{Term: "carreta", Weight: 2},
		{Term: "pneu", Weight: 2},
		{Term: "manutenção preventiva", Weight: 3},
		{Term: "manutenção", Weight: 1},
		{Term: "abastecimento", Weight: 2},
		{Term: "combustível", Weight: 2},
		{Term: "quilometragem", Weight: 2},
		{Term: "licenciamento", Weight: 2},
		{Term: "motorista", Weight: 1},
	}
}

func accountingKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "contábil", Weight: 2},
		{Term: "contabil", Weight: 2},
		{Term: "balancete", Weight: 3},
		{Term: "balanço patrimonial", Weight: 3},
		{Term: "dre", Weight: 2},
		{Term: "lançamento contábil", Weight: 3},
		{Term: "plano de contas", Weight: 3},
		{Term: "razão", Weight: 1},
		{Term: "depreciação", Weight: 2},
		{Term: "provisão", Weight: 2},
		{Term: "ecd", Weight: 2},
		{Term: "ecf", Weight: 2},
	}
}

func strategicKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "indicador", Weight: 2},
		{Term: "kpi", Weight: 2},
		{Term: "dashboard", Weight: 2},
		{Term: "meta", Weight: 1},
		{Term: "desempenho", Weight: 2},
		{Term: "rentabilidade", Weight: 2},
		{Term: "margem", Weight: 1},
		{Term: "estratég", Weight: 2},
		{Term: "projeção", Weight: 2},
		{Term: "comparativo", Weight: 1},
		{Term: "análise gerencial", Weight: 3},
	}
}

func qaKeywords() []KeywordRule {
	return []KeywordRule{
		{Term: "como usar", Weight: 2},
		{Term: "como faço", Weight: 2},
		{Term: "como fazer", Weight: 2},
		{Term: "onde encontro", Weight: 2},
		{Term: "ajuda", Weight: 2},
		{Term: "dúvida", Weight: 2},
		{Term: "duvida", Weight: 2},
		{Term: "tutorial", Weight: 2},
		{Term: "manual do sistema", Weight: 2},
		{Term: "o que significa", Weight: 2},
		{Term: "suporte", Weight: 1},
	}
}

func (c *RouterConfig) Clone() *RouterConfig {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Keywords = make(map[Category][]KeywordRule, len(c.Keywords))
	for cat, rules := range c.Keywords {
		clone.Keywords[cat] = append([]KeywordRule(nil), rules...)
	}
	return &clone
}

// Validate checks the table set before the router is constructed. Any
// violation is a configuration error and must prevent startup.
func (c *RouterConfig) Validate() error {
	if len(c.Keywords) == 0 {
		return fmt.Errorf("keyword table is empty")
	}
	if !c.DefaultCategory.IsValid() {
		return fmt.Errorf("default category %q is not in the category set", c.DefaultCategory)
	}

	for cat, rules := range c.Keywords {
		if !cat.IsValid() {
			return fmt.Errorf("keyword table references unknown category %q", cat)
		}
		if len(rules) == 0 {
			return fmt.Errorf("category %q has no keyword rules", cat)
		}
		for _, rule := range rules {
			if strings.TrimSpace(rule.Term) == "" {
				return fmt.Errorf("category %q has a rule with an empty term", cat)
			}
			if rule.Term != strings.ToLower(rule.Term) {
				return fmt.Errorf("category %q term %q is not lowercase", cat, rule.Term)
			}
			if rule.Weight < 1 {
				return fmt.Errorf("category %q term %q has non-positive weight %d", cat, rule.Term, rule.Weight)
			}
		}
	}

	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return fmt.Errorf("score threshold %v outside [0,1]", c.ScoreThreshold)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("context budget must be positive, got %d", c.ContextBudget)
	}
	return nil
}
