package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

const duplicateKeyCode = 11000

// uniqueIndex ties a named unique index to the field it protects.
type uniqueIndex struct {
	Name  string
	Key   string
	Field domain.Field
}

// classifyWriteErr turns a duplicate-key write error into a
// *domain.ConstraintViolation. Other errors are returned unchanged.
//
// The server's keyPattern is preferred; the index name in the message is
// the fallback for servers that omit it.
func classifyWriteErr(err error, indexes []uniqueIndex) error {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return err
	}
	for _, e := range we.WriteErrors {
		if e.Code != duplicateKeyCode {
			continue
		}
		if idx, ok := matchKeyPattern(e, indexes); ok {
			return &domain.ConstraintViolation{Field: idx.Field, Constraint: idx.Name, Err: err}
		}
		name := indexNameFromMessage(e.Message)
		for _, idx := range indexes {
			if idx.Name == name {
				return &domain.ConstraintViolation{Field: idx.Field, Constraint: idx.Name, Err: err}
			}
		}
		return &domain.ConstraintViolation{Constraint: name, Err: err}
	}
	return err
}

func matchKeyPattern(e mongo.WriteError, indexes []uniqueIndex) (uniqueIndex, bool) {
	kp, ok := e.Raw.Lookup("keyPattern").DocumentOK()
	if !ok {
		return uniqueIndex{}, false
	}
	elems, err := kp.Elements()
	if err != nil || len(elems) != 1 {
		return uniqueIndex{}, false
	}
	for _, idx := range indexes {
		if idx.Key == elems[0].Key() {
			return idx, true
		}
	}
	return uniqueIndex{}, false
}

// indexNameFromMessage extracts NAME from "... index: NAME dup key: ...".
func indexNameFromMessage(msg string) string {
	_, rest, ok := strings.Cut(msg, "index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return name
}
