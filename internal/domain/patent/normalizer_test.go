package patent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/praxisip/molscope/pkg/errors"
)

func TestNormalizeFullRecord(t *testing.T) {
	n := NewNormalizer("https://patentscope.wipo.int")

	rec, err := n.Normalize(RawFieldSet{
		PublicationNumber: "  WO2023123456A1 ",
		Title:             "Acetylsalicylic&nbsp;acid   formulations",
		Abstract:          "A stable\n\tformulation of aspirin.",
		Applicants:        []string{"Bayer AG; Bayer AG", " Bayer AG "},
		Inventors:         []string{"Jane Roe", "John Doe"},
		PublicationDate:   "15.06.2023",
		IPCCodes:          []string{"A61K 31/60", "A61K 31/60"},
		DocID:             "/search/en/detail.jsf?docId=WO2023123456&tab=PCTBiblio",
	})
	require.NoError(t, err)

	assert.Equal(t, "WO2023123456", rec.PatentID)
	assert.Equal(t, "WO2023123456A1", rec.PublicationNumber)
	assert.Equal(t, "Acetylsalicylic acid formulations", rec.Title)
	assert.Equal(t, "A stable formulation of aspirin.", rec.Abstract)
	assert.Equal(t, []string{"Bayer AG"}, rec.Applicants)
	assert.Equal(t, []string{"Jane Roe", "John Doe"}, rec.Inventors)
	assert.Equal(t, []string{"A61K 31/60"}, rec.IPCCodes)
	require.NotNil(t, rec.PublicationDate)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), *rec.PublicationDate)
	assert.Equal(t,
		"https://patentscope.wipo.int/search/en/detail.jsf?docId=WO2023123456",
		rec.URL)
}

func TestNormalizeRejectsUnidentifiableRecord(t *testing.T) {
	n := NewNormalizer("https://patentscope.wipo.int")

	_, err := n.Normalize(RawFieldSet{
		Abstract:   "some text",
		Applicants: []string{"Someone"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMalformedRecord))
}

func TestNormalizeKeepsRecordWithUnparseableDate(t *testing.T) {
	n := NewNormalizer("https://patentscope.wipo.int")

	rec, err := n.Normalize(RawFieldSet{
		PublicationNumber: "US20230001234A1",
		PublicationDate:   "sometime in spring",
	})
	require.NoError(t, err)
	assert.Nil(t, rec.PublicationDate)
	assert.Equal(t, "US20230001234A1", rec.PublicationNumber)
}

func TestNormalizeIsIdempotentOnCleanInput(t *testing.T) {
	n := NewNormalizer("https://patentscope.wipo.int")
	raw := RawFieldSet{
		PublicationNumber: "EP4123456A1",
		Title:             "Catalyst composition",
		Applicants:        []string{"BASF SE"},
		PublicationDate:   "2023-01-25",
		DocID:             "EP4123456",
	}

	first, err := n.Normalize(raw)
	require.NoError(t, err)

	again, err := n.Normalize(RawFieldSet{
		PublicationNumber: first.PublicationNumber,
		Title:             first.Title,
		Applicants:        first.Applicants,
		PublicationDate:   "2023-01-25",
		DocID:             first.PatentID,
	})
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestNormalizeAllCountsDrops(t *testing.T) {
	n := NewNormalizer("https://patentscope.wipo.int")

	records, dropped := n.NormalizeAll([]RawFieldSet{
		{PublicationNumber: "WO2023000001A1", Title: "First"},
		{Abstract: "orphan text"},
		{PublicationNumber: "WO2023000002A1", Title: "Second"},
	})
	assert.Len(t, records, 2)
	assert.Equal(t, 1, dropped)
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-06-15", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"15.06.2023", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"15/06/2023", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"15 June 2023", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"June 15, 2023", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := ParseDate(tt.in)
		require.NotNil(t, got, tt.in)
		assert.Equal(t, tt.want, *got, tt.in)
	}

	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("not a date"))
}
