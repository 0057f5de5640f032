package repository

import (
	"github.com/okian/bakeoff/internal/domain/errs"
)

func notFound(op, entity string, id uint) error {
	return errs.Newf(op, errs.ErrNotFound, "%s %d", entity, id)
}

func storageErr(op string, err error) error {
	return errs.Wrap(op, errs.ErrStorage, err)
}

func duplicateName(op, name string) error {
	return errs.Newf(op, errs.ErrValidation, "contestant name %q already exists", name)
}
