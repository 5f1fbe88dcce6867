package stage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/testutil"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// preDocumentsState runs every stage before the document kit.
func preDocumentsState(t *testing.T, req model.TripRequest, gw Gateway) *tripstate.State {
	t.Helper()
	st := searchedState(t, req, gw)
	runStages(t, context.Background(), st, &Itinerary{Gateway: gw}, &VisaRequirements{Gateway: gw})
	return st
}

func TestDocumentKit_GeneratedLetterAndChecklist(t *testing.T) {
	t.Parallel()

	// Arrange
	providers := healthyProviders()
	writer := providers[3]
	gw := newGateway(t, providers...)
	st := preDocumentsState(t, testutil.ParisRequest(), gw)

	// Act
	out, err := (&DocumentKit{Gateway: gw}).Run(context.Background(), st)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, out.Status)
	kit := out.Payload.(model.DocumentKit)
	assert.Contains(t, kit.CoverLetter, "Dear Sir or Madam")
	assert.Equal(t, "writer", kit.CoverLetterProvider)
	assert.Equal(t, model.ConfidenceHigh, kit.CoverLetterConfidence)

	prompts := writer.Requests()
	letterPrompt := prompts[len(prompts)-1].(model.GenerationRequest).Prompt
	assert.Contains(t, letterPrompt, `"The Consular Officer, Embassy/Consulate of France"`)
	assert.Contains(t, letterPrompt, "Main applicant: Asha Rao")
	assert.Contains(t, letterPrompt, "Additional travellers: Vikram Rao")
	assert.Contains(t, letterPrompt, "We plan to arrive via Air France flight from DEL to CDG")

	provided := make(map[string]bool)
	for _, item := range kit.Checklist {
		provided[item.Item] = item.Provided
	}
	assert.True(t, provided["Round-trip flight reservation"])
	assert.True(t, provided["Hotel reservation(s) or proof of accommodation"])
	assert.True(t, provided["Travel medical insurance (min €30,000 coverage)"])
	assert.True(t, provided["Travel itinerary and cover letter explaining trip purpose"])
	assert.False(t, provided["Passport with required validity and blank pages"])
	assert.True(t, provided["Accommodation proof for Paris (2025-12-05 to 2025-12-10)"])
	assert.Len(t, kit.Checklist, 10)
}

func TestDocumentKit_ExhaustedGenerationUsesTemplate(t *testing.T) {
	t.Parallel()

	// Arrange
	gw := newGateway(t, healthyProviders()...)
	st := preDocumentsState(t, testutil.ParisRequest(), gw)
	failing := newGateway(t, testutil.NewFakeProvider("writer", model.CapabilityGeneration, testutil.Step{Err: errors.New("overloaded")}))

	// Act
	out, err := (&DocumentKit{Gateway: failing}).Run(context.Background(), st)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusDegraded, out.Status)
	kit := out.Payload.(model.DocumentKit)
	assert.True(t, strings.HasPrefix(kit.CoverLetter, "The Consular Officer, Embassy/Consulate of France"))
	assert.Contains(t, kit.CoverLetter, "5 December 2025 to 10 December 2025")
	assert.Contains(t, kit.CoverLetter, "I will be travelling with Vikram Rao.")
	assert.Contains(t, kit.CoverLetter, "[Employer]")
	assert.Equal(t, model.ConfidenceLow, kit.CoverLetterConfidence)
}

func TestDocumentKit_GenerationUnavailable(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, healthyProviders()...)
	st := preDocumentsState(t, testutil.ParisRequest(), gw)

	_, err := (&DocumentKit{Gateway: newGateway(t)}).Run(context.Background(), st)

	var unavailable *model.GenerationUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, model.StageDocuments, unavailable.Stage)
}

func TestChecklist_MissingSectionsAreNotProvided(t *testing.T) {
	t.Parallel()

	rules := visaRules(testutil.ParisRequest(), model.Resolution{PrimaryCountry: "France"})

	items := checklist(rules, model.FlightSection{}, model.LodgingSection{}, model.BudgetSection{}, false)

	require.Len(t, items, 9)
	for _, item := range items {
		assert.False(t, item.Provided, item.Item)
	}
}
