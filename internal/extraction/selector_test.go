package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisip/molscope/internal/domain/patent"
)

const searchPageFixture = `
<html><body>
<div class="results-info">Showing 1-5 of 156 results</div>
<div class="resultSet">
  <div class="result-item">
    <a href="/search/en/detail.jsf?docId=WO2023111111">WO2023111111A1</a>
    <div class="title-line">Aspirin formulation</div>
    <div class="abstract">Acetylsalicylic acid composition.</div>
    <div class="applicant">Bayer AG</div>
    <span class="date">15.06.2023</span>
  </div>
  <div class="result-item">
    <a href="/search/en/detail.jsf?docId=WO2023222222">WO2023222222A1</a>
    <div class="abstract">Enteric coated tablet.</div>
    <div class="applicant">Generic Pharma</div>
  </div>
  <div class="result-item">
    <span class="number">US20230333333A1</span>
    <h3>Salicylate synthesis</h3>
    <div class="inventor">John Doe</div>
    <span class="ipc">A61K 31/60</span>
  </div>
  <div class="result-item"></div>
</div>
</body></html>`

func TestSelectorExtractsSearchResults(t *testing.T) {
	s := NewSelectorStrategy()

	res, err := s.Extract(context.Background(), Document{
		HTML: searchPageFixture,
		Kind: KindSearchResults,
	})
	require.NoError(t, err)
	require.True(t, res.Usable())

	assert.Equal(t, 156, res.TotalResults)
	require.Len(t, res.FieldSets, 3)

	first := res.FieldSets[0]
	assert.Equal(t, "WO2023111111A1", first.PublicationNumber)
	assert.Equal(t, "Acetylsalicylic acid composition.", first.Abstract)
	assert.Equal(t, []string{"Bayer AG"}, first.Applicants)
	assert.Equal(t, "15.06.2023", first.PublicationDate)
	assert.Contains(t, first.DocID, "docId=WO2023111111")

	third := res.FieldSets[2]
	assert.Equal(t, "US20230333333A1", third.PublicationNumber)
	assert.Equal(t, "Salicylate synthesis", third.Title)
	assert.Equal(t, []string{"John Doe"}, third.Inventors)
	assert.Equal(t, []string{"A61K 31/60"}, third.IPCCodes)
}

func TestSelectorEmptyPageIsNotUsable(t *testing.T) {
	s := NewSelectorStrategy()

	res, err := s.Extract(context.Background(), Document{
		HTML: `<html><body><p>Session expired.</p></body></html>`,
		Kind: KindSearchResults,
	})
	require.NoError(t, err)
	assert.False(t, res.Usable())
	assert.Zero(t, res.TotalResults)
}

func TestResultWithOnlyUnidentifiedSetsIsNotUsable(t *testing.T) {
	res := &Result{FieldSets: []patent.RawFieldSet{{Abstract: "A compound."}}}
	assert.False(t, res.Usable())

	res.FieldSets = append(res.FieldSets, patent.RawFieldSet{Title: "Named"})
	assert.True(t, res.Usable())
}

func TestSelectorExtractsDetailPage(t *testing.T) {
	s := NewSelectorStrategy()

	html := `
<html><body>
  <h1 class="patent-title">Aspirin formulation</h1>
  <div id="abstract">A stable composition of acetylsalicylic acid.</div>
  <span class="publication-number">WO2023111111A1</span>
  <span class="publication-date">2023-06-15</span>
  <span class="application-date">2021-12-01</span>
  <div class="inventor"><span class="name">Jane Roe</span></div>
  <div class="applicant"><span class="name">Bayer AG</span></div>
  <span class="ipc-code">A61K 31/60</span>
  <span class="cpc-code">A61K 31/616</span>
</body></html>`

	res, err := s.Extract(context.Background(), Document{HTML: html, Kind: KindDetail})
	require.NoError(t, err)
	require.True(t, res.Usable())
	require.Len(t, res.FieldSets, 1)

	set := res.FieldSets[0]
	assert.Equal(t, "Aspirin formulation", set.Title)
	assert.Equal(t, "A stable composition of acetylsalicylic acid.", set.Abstract)
	assert.Equal(t, "WO2023111111A1", set.PublicationNumber)
	assert.Equal(t, "2023-06-15", set.PublicationDate)
	assert.Equal(t, "2021-12-01", set.ApplicationDate)
	assert.Equal(t, []string{"Jane Roe"}, set.Inventors)
	assert.Equal(t, []string{"Bayer AG"}, set.Applicants)
	assert.Equal(t, []string{"A61K 31/60"}, set.IPCCodes)
	assert.Equal(t, []string{"A61K 31/616"}, set.CPCCodes)
}

func TestExtractTotalResultsPicksLargestNumber(t *testing.T) {
	s := NewSelectorStrategy()

	res, err := s.Extract(context.Background(), Document{
		HTML: `<html><body>
			<div class="result-count">1 - 10 of 1,234</div>
			<div class="result-item"><span class="number">WO2023111111A1</span></div>
		</body></html>`,
		Kind: KindSearchResults,
	})
	require.NoError(t, err)
	assert.Equal(t, 1234, res.TotalResults)
}

func TestExtractTotalResultsKeywordFallback(t *testing.T) {
	s := NewSelectorStrategy()

	res, err := s.Extract(context.Background(), Document{
		HTML: `<html><body>
			<p>About 89 results found for your query.</p>
			<div class="result-item"><span class="number">WO2023111111A1</span></div>
		</body></html>`,
		Kind: KindSearchResults,
	})
	require.NoError(t, err)
	assert.Equal(t, 89, res.TotalResults)
}
