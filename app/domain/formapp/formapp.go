// Package formapp maintains the app layer api for form administration.
package formapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/councl/backend/app/sdk/errs"
	"github.com/councl/backend/app/sdk/mid"
	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/web"
	"github.com/google/uuid"
)

type app struct {
	formBus *formbus.Core
}

func newApp(formBus *formbus.Core) *app {
	return &app{
		formBus: formBus,
	}
}

// create adds a new form definition to the system.
func (a *app) create(ctx context.Context, r *http.Request) web.Encoder {
	var app NewForm
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	nf, err := toBusNewForm(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	formBus, err := a.formBusWithTx(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	frm, err := formBus.Create(ctx, nf)
	if err != nil {
		if errors.Is(err, formbus.ErrUniqueSimpleID) {
			return errs.New(errs.Aborted, formbus.ErrUniqueSimpleID)
		}
		return errs.Errorf(errs.InternalOnlyLog, "create: form[%+v]: %s", app.SimpleID, err)
	}

	return toAppForm(frm)
}

// update modifies an existing form definition.
func (a *app) update(ctx context.Context, r *http.Request) web.Encoder {
	var app UpdateForm
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	frm, errResp := a.formByID(ctx, r)
	if errResp != nil {
		return errResp
	}

	uf, err := toBusUpdateForm(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	formBus, err := a.formBusWithTx(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	updFrm, err := formBus.Update(ctx, frm, uf)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "update: formID[%s]: %s", frm.ID, err)
	}

	return toAppForm(updFrm)
}

// delete removes a form definition.
func (a *app) delete(ctx context.Context, r *http.Request) web.Encoder {
	frm, errResp := a.formByID(ctx, r)
	if errResp != nil {
		return errResp
	}

	formBus, err := a.formBusWithTx(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	if err := formBus.Delete(ctx, frm); err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "delete: formID[%s]: %s", frm.ID, err)
	}

	return nil
}

// queryByID returns a complete form definition, privilege rules included.
func (a *app) queryByID(ctx context.Context, r *http.Request) web.Encoder {
	frm, errResp := a.formByID(ctx, r)
	if errResp != nil {
		return errResp
	}

	return toAppForm(frm)
}

func (a *app) formByID(ctx context.Context, r *http.Request) (formbus.Form, web.Encoder) {
	formID, err := uuid.Parse(web.Param(r, "form_id"))
	if err != nil {
		return formbus.Form{}, errs.NewFieldErrors("form_id", err)
	}

	frm, err := a.formBus.QueryByID(ctx, formID)
	if err != nil {
		if errors.Is(err, formbus.ErrNotFound) {
			return formbus.Form{}, errs.New(errs.NotFound, err)
		}
		return formbus.Form{}, errs.Errorf(errs.InternalOnlyLog, "query: formID[%s]: %s", formID, err)
	}

	return frm, nil
}

// formBusWithTx binds the form business to the request transaction when one
// is running.
func (a *app) formBusWithTx(ctx context.Context) (*formbus.Core, error) {
	tx, err := mid.GetTran(ctx)
	if err != nil {
		return a.formBus, nil
	}

	return a.formBus.NewWithTx(tx)
}
