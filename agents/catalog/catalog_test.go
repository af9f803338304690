package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/providers"
	"github.com/transvia/copiloto/core/tools"
)

type fakeProvider struct {
	lastRequest *providers.Request
	response    string
	err         error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) SupportsModel(string) bool { return true }

func (f *fakeProvider) Complete(_ context.Context, req *providers.Request) (*providers.Response, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &providers.Response{Content: f.response, StopReason: providers.StopReasonEndTurn}, nil
}

type fakeSearch struct {
	output  string
	err     error
	queries []string
}

func (f *fakeSearch) Name() string        { return tools.LegislationSearchName }
func (f *fakeSearch) Description() string { return "test search" }

func (f *fakeSearch) Invoke(_ context.Context, args map[string]any) (*tools.Invocation, error) {
	if q, ok := args["query"].(string); ok {
		f.queries = append(f.queries, q)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &tools.Invocation{Output: f.output}, nil
}

func TestBuildRegistryRegistersAllCategories(t *testing.T) {
	registry, err := BuildRegistry(BuildConfig{Provider: &fakeProvider{}})
	require.NoError(t, err)

	require.Equal(t, len(domain.ValidCategories()), registry.Len())
	for _, category := range domain.ValidCategories() {
		agent, err := registry.Get(category)
		require.NoError(t, err, "category %s", category)
		assert.NotEmpty(t, agent.Descriptor.Name)
		assert.NotEmpty(t, agent.Descriptor.Description)
	}
}

func TestBuildRegistryListOrder(t *testing.T) {
	registry, err := BuildRegistry(BuildConfig{Provider: &fakeProvider{}})
	require.NoError(t, err)

	descriptors := registry.List()
	require.Len(t, descriptors, len(Definitions()))
	for i, def := range Definitions() {
		assert.Equal(t, def.Descriptor.Name, descriptors[i].Name)
	}
}

func TestBuildRegistryRequiresProvider(t *testing.T) {
	_, err := BuildRegistry(BuildConfig{})
	require.Error(t, err)
	assert.Equal(t, coreerrors.KindConfiguration, coreerrors.KindOf(err))
}

func TestChatGroundsRetrievalAgents(t *testing.T) {
	search := &fakeSearch{output: "Contexto da legislação:\nICMS interestadual."}
	set, err := tools.NewSet(search)
	require.NoError(t, err)

	provider := &fakeProvider{response: "resposta"}
	registry, err := BuildRegistry(BuildConfig{Provider: provider, Tools: set})
	require.NoError(t, err)

	agent, err := registry.Get(domain.CategoryFiscal)
	require.NoError(t, err)

	result, err := agent.Chat(context.Background(), &agents.ChatRequest{
		Message: "qual a alíquota de ICMS para frete interestadual?",
	})
	require.NoError(t, err)

	assert.Equal(t, "resposta", result.Text)
	assert.Equal(t, []string{tools.LegislationSearchName}, result.ToolsInvoked)
	require.Len(t, search.queries, 1)
	assert.Equal(t, "qual a alíquota de ICMS para frete interestadual?", search.queries[0])
	require.NotNil(t, provider.lastRequest)
	assert.Contains(t, provider.lastRequest.SystemPrompt, "## Base de conhecimento")
	assert.Contains(t, provider.lastRequest.SystemPrompt, "ICMS interestadual.")
}

func TestChatSkipsRetrievalWhenGroundingProvided(t *testing.T) {
	search := &fakeSearch{output: "nunca usado"}
	set, err := tools.NewSet(search)
	require.NoError(t, err)

	provider := &fakeProvider{response: "ok"}
	registry, err := BuildRegistry(BuildConfig{Provider: provider, Tools: set})
	require.NoError(t, err)

	agent, err := registry.Get(domain.CategoryFiscal)
	require.NoError(t, err)

	result, err := agent.Chat(context.Background(), &agents.ChatRequest{
		Message:   "pergunta",
		Grounding: "contexto já resolvido",
	})
	require.NoError(t, err)

	assert.Empty(t, search.queries)
	assert.Empty(t, result.ToolsInvoked)
	assert.Contains(t, provider.lastRequest.SystemPrompt, "contexto já resolvido")
}

func TestChatNonRetrievalAgentNeverSearches(t *testing.T) {
	search := &fakeSearch{output: "nunca usado"}
	set, err := tools.NewSet(search)
	require.NoError(t, err)

	provider := &fakeProvider{response: "ok"}
	registry, err := BuildRegistry(BuildConfig{Provider: provider, Tools: set})
	require.NoError(t, err)

	agent, err := registry.Get(domain.CategoryCRM)
	require.NoError(t, err)

	_, err = agent.Chat(context.Background(), &agents.ChatRequest{Message: "funil de vendas"})
	require.NoError(t, err)
	assert.Empty(t, search.queries)
}

func TestChatContinuesWhenRetrievalFails(t *testing.T) {
	search := &fakeSearch{err: errors.New("index offline")}
	set, err := tools.NewSet(search)
	require.NoError(t, err)

	provider := &fakeProvider{response: "resposta sem fontes"}
	registry, err := BuildRegistry(BuildConfig{Provider: provider, Tools: set})
	require.NoError(t, err)

	agent, err := registry.Get(domain.CategoryTMS)
	require.NoError(t, err)

	result, err := agent.Chat(context.Background(), &agents.ChatRequest{Message: "cobrar frete"})
	require.NoError(t, err)
	assert.Equal(t, "resposta sem fontes", result.Text)
	assert.Empty(t, result.ToolsInvoked)
	assert.NotContains(t, provider.lastRequest.SystemPrompt, "## Base de conhecimento")
}

func TestChatWrapsProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream 500")}
	registry, err := BuildRegistry(BuildConfig{Provider: provider})
	require.NoError(t, err)

	agent, err := registry.Get(domain.CategoryFinancial)
	require.NoError(t, err)

	_, err = agent.Chat(context.Background(), &agents.ChatRequest{Message: "contas a pagar"})
	require.Error(t, err)
	assert.Equal(t, coreerrors.KindAgentExecution, coreerrors.KindOf(err))
}

func TestChatIncludesUserContext(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	registry, err := BuildRegistry(BuildConfig{Provider: provider})
	require.NoError(t, err)

	agent, err := registry.Get(domain.CategoryStrategic)
	require.NoError(t, err)

	_, err = agent.Chat(context.Background(), &agents.ChatRequest{
		Message: "margem por filial",
		Context: &agents.RequestContext{OrgID: "org-1", BranchID: "matriz", Role: "diretor"},
	})
	require.NoError(t, err)

	assert.Contains(t, provider.lastRequest.SystemPrompt, "Organização: org-1")
	assert.Contains(t, provider.lastRequest.SystemPrompt, "Filial: matriz")
	assert.Contains(t, provider.lastRequest.SystemPrompt, "Perfil: diretor")
}
