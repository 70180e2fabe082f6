package contract_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/grading"
	"github.com/lumora-edu/lumora-api/internal/handler"
)

type stubSubmissionService struct {
	response dto.SubmissionResponse
}

func (s stubSubmissionService) Submit(context.Context, dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	return s.response, nil
}

func (s stubSubmissionService) ListWorkbooks(context.Context, uint, uint) ([]dto.WorkbookResponse, error) {
	return nil, nil
}

func TestSubmissionResponseContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "submission_response.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	submittedAt := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)
	rationale := grading.Evaluate(grading.PolicyInput{
		SubmittedAt:  submittedAt,
		EndDate:      submittedAt.Add(24 * time.Hour),
		DeadDate:     submittedAt.Add(48 * time.Hour),
		SolutionDate: submittedAt.Add(72 * time.Hour),
		MaxAttempts:  grading.UnlimitedAttempts,
	})

	serviceStub := stubSubmissionService{response: dto.SubmissionResponse{
		WorkbookID:  "3c5b9a52-0f31-4c28-8f1e-9a4f6f1c2d11",
		Score:       0.75,
		SubmittedAt: submittedAt,
		Rationale:   dto.NewRationaleResponse(rationale),
		Grade: dto.GradeResponse{
			ID:                     21,
			UserID:                 5,
			QuestionID:             11,
			BestScore:              0.75,
			OverallBestScore:       0.75,
			LegalScore:             0.75,
			PartialCreditBestScore: 0.75,
			EffectiveScore:         0.75,
			NumAttempts:            1,
			UpdatedAt:              submittedAt,
		},
	}}

	app := fiber.New()
	handler.NewSubmissionHandler(serviceStub, zerolog.Nop()).Register(app.Group("/api/v1/submissions"))

	payload, err := json.Marshal(dto.SubmissionCreateRequest{QuestionID: 11, UserID: 5, Score: 0.75})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.NoError(t, schema.Validate(decoded))
}
