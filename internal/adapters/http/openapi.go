package httpadapter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oapi-codegen/runtime"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

const maxRequestBodyBytes = 64 << 10

//go:embed openapi.yaml
var openAPIDocument []byte

var apiContract = mustLoadContract(openAPIDocument)

type contract struct {
	doc *openapi3.T
}

func loadContract(raw []byte) (*contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("load openapi contract: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi contract: %w", err)
	}
	return &contract{doc: doc}, nil
}

func mustLoadContract(raw []byte) *contract {
	c, err := loadContract(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// decodeBody validates the JSON body against a component schema before decoding it into dst.
func (c *contract) decodeBody(r *http.Request, schemaName string, dst any) error {
	const op = "decode request body"

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("request body too large"))
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("invalid json"))
	}

	ref, ok := c.doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return fmt.Errorf("%s: schema %q is not defined", op, schemaName)
	}
	if err := ref.Value.VisitJSON(generic); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, schemaViolation(err))
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, err)
	}
	return nil
}

// schemaViolation keeps the first line of a schema error; the rest dumps the whole schema.
func schemaViolation(err error) error {
	msg := err.Error()
	if idx := strings.IndexByte(msg, '\n'); idx > 0 {
		msg = msg[:idx]
	}
	return errors.New(msg)
}

func bindProjectID(r *http.Request) (int, error) {
	var projectID int
	err := runtime.BindStyledParameterWithOptions("simple", "projectId", r.PathValue("projectId"), &projectID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bind projectId", err)
	}
	return projectID, nil
}

func bindReportID(r *http.Request) (string, error) {
	var reportID string
	err := runtime.BindStyledParameterWithOptions("simple", "reportId", r.PathValue("reportId"), &reportID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "bind reportId", err)
	}
	return reportID, nil
}
