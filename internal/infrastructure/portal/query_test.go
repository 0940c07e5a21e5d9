package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisip/molscope/internal/domain/search"
)

func mustQuery(t *testing.T, identifier string, page, pageSize int) search.SearchQuery {
	t.Helper()
	q, err := search.NewSearchQuery(identifier, "exact", page, pageSize)
	require.NoError(t, err)
	return q
}

func TestBuildSearchQueryFormulaTargetsAbstract(t *testing.T) {
	uq := BuildSearchQuery(mustQuery(t, "C9H8O4", 1, 10))

	assert.Equal(t, `EN_AB:"C9H8O4"`, uq.Params.Get("query"))
	assert.Equal(t, "all", uq.Params.Get("office"))
	assert.Equal(t, "Relevance", uq.Params.Get("sortOption"))
	assert.Equal(t, "10", uq.Params.Get("maxRec"))
	assert.Equal(t, "1", uq.Params.Get("startRec"))
}

func TestBuildSearchQuerySMILESTargetsAbstract(t *testing.T) {
	uq := BuildSearchQuery(mustQuery(t, `C[C@H](N)C(=O)O`, 1, 10))
	assert.Equal(t, `EN_AB:"C[C@H](N)C(=O)O"`, uq.Params.Get("query"))
}

func TestBuildSearchQueryNameTargetsAllFields(t *testing.T) {
	uq := BuildSearchQuery(mustQuery(t, "aspirin", 1, 10))
	assert.Equal(t, "EN_ALL:aspirin", uq.Params.Get("query"))
}

func TestBuildSearchQueryPaging(t *testing.T) {
	uq := BuildSearchQuery(mustQuery(t, "aspirin", 3, 25))
	assert.Equal(t, "25", uq.Params.Get("maxRec"))
	assert.Equal(t, "51", uq.Params.Get("startRec"))
}

func TestBuildDetailQuery(t *testing.T) {
	uq := BuildDetailQuery("WO2023123456")

	assert.Equal(t, detailPath, uq.Path)
	assert.Equal(t, "WO2023123456", uq.Params.Get("docId"))

	url := uq.URL("https://patentscope.wipo.int/")
	assert.Equal(t, "https://patentscope.wipo.int/search/en/detail.jsf?docId=WO2023123456", url)
}

func TestIsFormula(t *testing.T) {
	assert.True(t, isFormula("C9H8O4"))
	assert.True(t, isFormula("CH3(CH2)2OH"))
	assert.False(t, isFormula("aspirin"))
	assert.False(t, isFormula(""))
}
