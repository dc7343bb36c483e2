package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrProjectNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "project")
}

func NewErrVMNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "vm")
}

type ErrGapNotFound struct {
	error
}

func NewErrGapNotFound(projectID uuid.UUID, gapID uint) *ErrGapNotFound {
	return &ErrGapNotFound{fmt.Errorf("gap %d not found in project %s", gapID, projectID)}
}

type ErrFileCorrupted struct {
	error
}

func NewErrFileCorrupted(message string) *ErrFileCorrupted {
	return &ErrFileCorrupted{fmt.Errorf("bad request: %s", message)}
}

func NewErrInventoryFileCorrupted(message string) *ErrFileCorrupted {
	return NewErrFileCorrupted(fmt.Sprintf("the provided inventory file is corrupted: %s", message))
}

type ErrProjectStateConflict struct {
	error
}

func NewErrProjectStateConflict(id uuid.UUID, status, operation string) *ErrProjectStateConflict {
	return &ErrProjectStateConflict{fmt.Errorf("project %s is %s: %s not allowed", id, status, operation)}
}

type ErrProjectHasNoInventory struct {
	error
}

func NewErrProjectHasNoInventory(id uuid.UUID) *ErrProjectHasNoInventory {
	return &ErrProjectHasNoInventory{fmt.Errorf("project has no inventory: %s", id)}
}

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("invalid request: %s", message)}
}
