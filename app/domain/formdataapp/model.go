package formdataapp

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/domain/formdatabus"
)

// reply is the response mapping for the read operation. Besides the fixed
// $form and $pagination keys it may carry a data key, or in flat mode the
// elem ids themselves as top level keys.
type reply map[string]any

// Encode implements the web.Encoder interface.
func (r reply) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// Pagination reports which slice of the eligible documents was returned.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// DataEntry is one readable field of a document.
type DataEntry struct {
	ElemID    string `json:"elemId"`
	OrderNr   int    `json:"orderNr"`
	Value     any    `json:"value"`
	ValueType string `json:"valueType"`
}

func toAppEntries(entries []formdatabus.ReadEntry) []DataEntry {
	app := make([]DataEntry, len(entries))
	for i, ent := range entries {
		app[i] = DataEntry{
			ElemID:    ent.ElemID,
			OrderNr:   ent.OrderNr,
			Value:     ent.Value,
			ValueType: ent.ValueType.String(),
		}
	}
	return app
}

func toAppDocs(docs [][]formdatabus.ReadEntry) [][]DataEntry {
	app := make([][]DataEntry, len(docs))
	for i, doc := range docs {
		app[i] = toAppEntries(doc)
	}
	return app
}

// =============================================================================

// FormElem is the renderable part of a form element. Privilege rules and
// server side flags never leave the service.
type FormElem struct {
	ElemID           string `json:"elemId"`
	OrderNr          int    `json:"orderNr"`
	ValueType        string `json:"valueType"`
	Label            string `json:"label"`
	Required         bool   `json:"required"`
	ValidationRegExp string `json:"validationRegExp,omitempty"`
}

// Form is the renderable form definition returned under the $form key.
type Form struct {
	SimpleID    string     `json:"simpleId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Elems       []FormElem `json:"elems"`
}

func toAppForm(bus formbus.Form) Form {
	elems := make([]FormElem, 0, len(bus.Elems))
	for _, elem := range bus.Elems {
		elems = append(elems, FormElem{
			ElemID:           elem.ElemID,
			OrderNr:          elem.OrderNr,
			ValueType:        elem.ValueType.String(),
			Label:            elem.Label,
			Required:         elem.Required,
			ValidationRegExp: elem.ValidationRegExp,
		})
	}

	return Form{
		SimpleID:    bus.SimpleID.String(),
		Title:       bus.Title,
		Description: bus.Description,
		Elems:       elems,
	}
}

// =============================================================================

// SubmitValue is one raw value of a write request.
type SubmitValue struct {
	ElemID string `json:"elemId"`
	Value  any    `json:"value"`
}

// SubmitRequest is the ordered list of values of a write request.
type SubmitRequest []SubmitValue

// Decode implements the web.Decoder interface.
func (app *SubmitRequest) Decode(data []byte) error {
	return json.Unmarshal(data, (*[]SubmitValue)(app))
}

// Validate checks the data in the model is considered clean.
func (app SubmitRequest) Validate() error {
	if len(app) == 0 {
		return errors.New("at least one value is required")
	}

	for _, v := range app {
		if strings.TrimSpace(v.ElemID) == "" {
			return errors.New("every value needs an elemId")
		}
	}

	return nil
}

func toBusNewValues(app SubmitRequest) []formdatabus.NewValue {
	values := make([]formdatabus.NewValue, len(app))
	for i, v := range app {
		values[i] = formdatabus.NewValue{
			ElemID: v.ElemID,
			Value:  v.Value,
		}
	}
	return values
}

// =============================================================================

// SubmitError describes why a write was rejected.
type SubmitError struct {
	ErrorID string `json:"errorId"`
	Message string `json:"message"`
	ElemID  string `json:"elemId,omitempty"`
}

// SubmitReply is the outcome of a write request. Rejections still answer
// with status 200 so the client can show the error next to the right
// input.
type SubmitReply struct {
	OK     bool         `json:"ok"`
	DataID string       `json:"dataId,omitempty"`
	Error  *SubmitError `json:"error,omitempty"`
}

// Encode implements the web.Encoder interface.
func (sr SubmitReply) Encode() ([]byte, string, error) {
	data, err := json.Marshal(sr)
	return data, "application/json", err
}
