// Package formdataapp maintains the app layer api for the form data domain.
// It is the public surface of the service: one read operation covering the
// bulk, multi id, and single id shapes, and the write operations.
package formdataapp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/councl/backend/app/sdk/errs"
	"github.com/councl/backend/app/sdk/mid"
	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/sdk/page"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/web"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/google/uuid"
)

type app struct {
	formBus     *formbus.Core
	formDataBus *formdatabus.Core
}

func newApp(formBus *formbus.Core, formDataBus *formdatabus.Core) *app {
	return &app{
		formBus:     formBus,
		formDataBus: formDataBus,
	}
}

// read serves the read shapes. The request states its intent in the query
// string: getForm asks for the form definition, dataId for submitted data,
// either "all", one id, or a list of ids. Asking for neither is a bad
// request.
func (a *app) read(ctx context.Context, r *http.Request) web.Encoder {
	qp := parseQueryParams(r)

	if !qp.GetForm && len(qp.DataIDs) == 0 {
		return errs.Newf(errs.InvalidArgument, "request must ask for the form definition, data, or both")
	}

	frm, errResp := a.form(ctx, r)
	if errResp != nil {
		return errResp
	}

	req := mid.GetRequester(ctx)

	resp := reply{}

	if qp.GetForm {
		if denial := privilege.Check(frm.CanUseForm, req); denial != nil {
			resp["$form"] = "privilegeError"
		} else {
			resp["$form"] = toAppForm(frm)
		}
	}

	switch {
	case len(qp.DataIDs) == 0:

	case qp.All:
		pg, err := page.Parse(qp.Offset, qp.Limit)
		if err != nil {
			return errs.New(errs.InvalidArgument, err)
		}

		res, err := a.formDataBus.Query(ctx, frm, req, nil, formdatabus.DefaultOrderBy, pg)
		if err != nil {
			return errs.Errorf(errs.InternalOnlyLog, "query: form[%s]: %s", frm.ID, err)
		}

		resp["data"] = toAppDocs(res.Docs)
		resp["$pagination"] = Pagination{Offset: res.Offset, Limit: res.Limit, Total: res.Total}

	case len(qp.DataIDs) == 1:
		dataID, err := uuid.Parse(qp.DataIDs[0])
		if err != nil {
			return errs.NewFieldErrors("dataId", err)
		}

		entries, err := a.formDataBus.QueryByID(ctx, frm, req, dataID)
		if err != nil {
			if errors.Is(err, formdatabus.ErrNotFound) {
				if qp.GetForm {
					break
				}
				return errs.New(errs.NotFound, formdatabus.ErrNotFound)
			}
			return errs.Errorf(errs.InternalOnlyLog, "querybyid: data[%s]: %s", dataID, err)
		}

		if qp.Flat {
			for _, ent := range entries {
				resp[ent.ElemID] = ent.Value
			}
			break
		}

		resp["data"] = toAppEntries(entries)

	default:
		dataIDs := make([]uuid.UUID, len(qp.DataIDs))
		for i, raw := range qp.DataIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return errs.NewFieldErrors("dataId", err)
			}
			dataIDs[i] = id
		}

		pg, err := page.Parse("", "")
		if err != nil {
			return errs.New(errs.Internal, err)
		}

		res, err := a.formDataBus.Query(ctx, frm, req, dataIDs, formdatabus.DefaultOrderBy, pg)
		if err != nil {
			return errs.Errorf(errs.InternalOnlyLog, "query: form[%s]: %s", frm.ID, err)
		}

		resp["data"] = toAppDocs(res.Docs)
	}

	return resp
}

// submit stores a new submission for the form.
func (a *app) submit(ctx context.Context, r *http.Request) web.Encoder {
	var sr SubmitRequest
	if err := web.Decode(r, &sr); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	frm, errResp := a.form(ctx, r)
	if errResp != nil {
		return errResp
	}

	req := mid.GetRequester(ctx)

	fd, err := a.formDataBus.Submit(ctx, frm, req, toBusNewValues(sr))
	if err != nil {
		return submitErrReply(frm, err)
	}

	return SubmitReply{OK: true, DataID: fd.ID.String()}
}

// update replaces values on an existing submission. A submission the
// requester may not edit answers not found, same as one that does not
// exist.
func (a *app) update(ctx context.Context, r *http.Request) web.Encoder {
	var sr SubmitRequest
	if err := web.Decode(r, &sr); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	frm, errResp := a.form(ctx, r)
	if errResp != nil {
		return errResp
	}

	dataID, err := uuid.Parse(web.Param(r, "data_id"))
	if err != nil {
		return errs.NewFieldErrors("data_id", err)
	}

	req := mid.GetRequester(ctx)

	fd, err := a.formDataBus.Update(ctx, frm, req, dataID, toBusNewValues(sr))
	if err != nil {
		if errors.Is(err, formdatabus.ErrNotFound) || errors.Is(err, formdatabus.ErrAccessDenied) {
			return errs.New(errs.NotFound, formdatabus.ErrNotFound)
		}
		return submitErrReply(frm, err)
	}

	return SubmitReply{OK: true, DataID: fd.ID.String()}
}

// delete removes an existing submission under the same visibility rules as
// update.
func (a *app) delete(ctx context.Context, r *http.Request) web.Encoder {
	frm, errResp := a.form(ctx, r)
	if errResp != nil {
		return errResp
	}

	dataID, err := uuid.Parse(web.Param(r, "data_id"))
	if err != nil {
		return errs.NewFieldErrors("data_id", err)
	}

	req := mid.GetRequester(ctx)

	if err := a.formDataBus.Delete(ctx, frm, req, dataID); err != nil {
		if errors.Is(err, formdatabus.ErrNotFound) || errors.Is(err, formdatabus.ErrAccessDenied) {
			return errs.New(errs.NotFound, formdatabus.ErrNotFound)
		}
		return errs.Errorf(errs.InternalOnlyLog, "delete: data[%s]: %s", dataID, err)
	}

	return nil
}

// form resolves the form mounted at the simple id in the path.
func (a *app) form(ctx context.Context, r *http.Request) (formbus.Form, web.Encoder) {
	sid, err := simpleid.Parse(web.Param(r, "simple_id"))
	if err != nil {
		return formbus.Form{}, errs.New(errs.NotFound, formbus.ErrNotFound)
	}

	frm, err := a.formBus.QueryBySimpleID(ctx, sid)
	if err != nil {
		if errors.Is(err, formbus.ErrNotFound) {
			return formbus.Form{}, errs.New(errs.NotFound, formbus.ErrNotFound)
		}
		return formbus.Form{}, errs.Errorf(errs.InternalOnlyLog, "query form: %s", err)
	}

	return frm, nil
}

// submitErrReply maps a rejected write onto the wire shape.
func submitErrReply(frm formbus.Form, err error) web.Encoder {
	if errors.Is(err, formdatabus.ErrAccessDenied) {
		return SubmitReply{OK: false, Error: &SubmitError{
			ErrorID: "notAllowed",
			Message: "you are not allowed to submit to this form",
		}}
	}

	if ve, ok := formdatabus.GetValueError(err); ok {
		return SubmitReply{OK: false, Error: &SubmitError{
			ErrorID: "invalidValue",
			Message: ve.Message,
			ElemID:  ve.ElemID,
		}}
	}

	return errs.Errorf(errs.InternalOnlyLog, "submit: form[%s]: %s", frm.ID, err)
}

// =============================================================================

type queryParams struct {
	GetForm bool
	All     bool
	DataIDs []string
	Flat    bool
	Offset  string
	Limit   string
}

func parseQueryParams(r *http.Request) queryParams {
	values := r.URL.Query()

	qp := queryParams{
		GetForm: values.Get("getForm") == "true" || values.Get("getForm") == "1",
		Flat:    values.Get("flat") == "true" || values.Get("flat") == "1",
		Offset:  values.Get("offset"),
		Limit:   values.Get("limit"),
	}

	for _, raw := range values["dataId"] {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if id == "all" {
				qp.All = true
				continue
			}
			qp.DataIDs = append(qp.DataIDs, id)
		}
	}

	if qp.All {
		qp.DataIDs = []string{"all"}
	}

	return qp
}
