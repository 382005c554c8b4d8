// Package ot implements the operational transform used to rebase a replica's
// pending operations on top of operations already committed to the server.
package ot

import (
	"github.com/iudanet/gophtask/internal/models"
)

// Transform resolves one server operation against one local operation.
//
// Both operations were applied to the same base state on different replicas:
// server has already been committed, local has already been applied locally.
// The result is the pair (server', local') such that applying server' after
// local gives the same state as applying local' after server. A nil result
// means no operation is needed on that side.
func Transform(server, local models.Operation) (*models.Operation, *models.Operation) {
	// Операции над разными задачами не конфликтуют
	if server.UUID != local.UUID {
		return &server, &local
	}

	switch {
	// Сервер уже создал задачу, локальное создание лишнее
	case server.Type == models.OpCreate && local.Type == models.OpCreate:
		return &server, nil

	// Обе стороны удалили задачу: состояния уже сошлись
	case server.Type == models.OpDelete && local.Type == models.OpDelete:
		return nil, nil

	// Create и Delete несовместимы; побеждает решение о существовании задачи
	case server.Type == models.OpCreate && local.Type == models.OpDelete:
		return &server, nil
	case server.Type == models.OpDelete && local.Type == models.OpCreate:
		return nil, &local

	// Update подразумевает существование задачи, Create становится лишним
	case server.Type == models.OpUpdate && local.Type == models.OpCreate:
		return &server, nil
	case server.Type == models.OpCreate && local.Type == models.OpUpdate:
		return nil, &local

	// Delete всегда побеждает Update
	case server.Type == models.OpUpdate && local.Type == models.OpDelete:
		return nil, &local
	case server.Type == models.OpDelete && local.Type == models.OpUpdate:
		return &server, nil

	case server.Type == models.OpUpdate && local.Type == models.OpUpdate:
		return transformUpdates(server, local)
	}

	return &server, &local
}

// transformUpdates resolves two updates of the same task
func transformUpdates(server, local models.Operation) (*models.Operation, *models.Operation) {
	// Разные свойства не конфликтуют
	if server.Property != local.Property {
		return &server, &local
	}

	// Одинаковое значение: состояния уже сошлись
	if server.SameValue(local) {
		return nil, nil
	}

	// LWW: побеждает более позднее изменение. При равных timestamp побеждает
	// серверная операция, она уже зафиксирована и одинакова для всех реплик
	if local.Timestamp.After(server.Timestamp) {
		return nil, &local
	}
	return &server, nil
}

// Rebase transforms a single server operation against the whole pending local
// log, in order. It returns the server operation to apply locally (nil when it
// was absorbed) and the new local log, which preserves the relative order of
// the surviving local operations.
func Rebase(server models.Operation, local []models.Operation) (*models.Operation, []models.Operation) {
	rebased := make([]models.Operation, 0, len(local))
	carry := &server

	for _, op := range local {
		// Серверная операция поглощена, остальные локальные проходят без изменений
		if carry == nil {
			rebased = append(rebased, op)
			continue
		}

		newServer, newLocal := Transform(*carry, op)
		carry = newServer
		if newLocal != nil {
			rebased = append(rebased, *newLocal)
		}
	}

	return carry, rebased
}
