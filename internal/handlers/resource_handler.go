package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/izlanproject/izlan-backend/internal/auth"
	"github.com/izlanproject/izlan-backend/internal/dto"
	"github.com/izlanproject/izlan-backend/internal/models"
	"github.com/izlanproject/izlan-backend/internal/services"
	"gorm.io/gorm"
)

// Resource describes one community-editable table exposed through the
// generic CRUD gateway.
type Resource struct {
	Table        string
	Path         string
	IDColumns    []string
	CreateFields []string
	UpdateFields []string
	// SkipModeration routes every write directly, without staging or
	// audit records (user-private rows like favorites).
	SkipModeration bool
	DefaultOrder   string
}

// ResourceHandler is the write gateway: every create/update/delete goes
// through the moderation engine. Community writes are staged and
// answered with 202 pending; moderator writes apply immediately inside
// one transaction with their audit record.
type ResourceHandler struct {
	db         *gorm.DB
	moderation *services.ModerationService
	roles      *services.RoleService
	res        Resource
}

func NewResourceHandler(db *gorm.DB, moderation *services.ModerationService, roles *services.RoleService, res Resource) *ResourceHandler {
	return &ResourceHandler{db: db, moderation: moderation, roles: roles, res: res}
}

func (h *ResourceHandler) Resource() Resource {
	return h.res
}

func (h *ResourceHandler) extractKey(c *fiber.Ctx) (map[string]interface{}, error) {
	key := make(map[string]interface{}, len(h.res.IDColumns))
	for _, col := range h.res.IDColumns {
		v := c.Params(col)
		if v == "" {
			return nil, fmt.Errorf("missing route param %s", col)
		}
		key[col] = v
	}
	return key, nil
}

func (h *ResourceHandler) singleIDColumn() bool {
	return len(h.res.IDColumns) == 1 && h.res.IDColumns[0] == "id"
}

func (h *ResourceHandler) targetKeyFromData(data map[string]interface{}) map[string]interface{} {
	key := make(map[string]interface{}, len(h.res.IDColumns))
	for _, col := range h.res.IDColumns {
		v, ok := data[col]
		if !ok {
			return nil
		}
		key[col] = v
	}
	return key
}

func filterFields(body map[string]interface{}, allowed []string) map[string]interface{} {
	if allowed == nil {
		out := make(map[string]interface{}, len(body))
		for k, v := range body {
			out[k] = v
		}
		return out
	}
	out := make(map[string]interface{}, len(allowed))
	for _, k := range allowed {
		if v, ok := body[k]; ok {
			out[k] = v
		}
	}
	return out
}

func (h *ResourceHandler) fetchRow(tx *gorm.DB, key map[string]interface{}) (map[string]interface{}, error) {
	row := map[string]interface{}{}
	err := tx.Table(h.res.Table).Where(key).Take(&row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// actor resolves the caller and their privilege. No token means an
// anonymous caller; role resolution fails closed.
func (h *ResourceHandler) actor(c *fiber.Ctx) (uuid.UUID, bool, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return uuid.Nil, false, nil
	}
	isModerator, err := h.roles.IsModerator(userID)
	if err != nil {
		return userID, false, err
	}
	return userID, isModerator, nil
}

func (h *ResourceHandler) shouldModerate(userID uuid.UUID, isModerator bool) bool {
	if h.res.SkipModeration {
		return false
	}
	if userID == uuid.Nil {
		return false
	}
	return !isModerator
}

func (h *ResourceHandler) List(c *fiber.Ctx) error {
	page, pageSize := normalizePagination(c)

	var total int64
	if err := h.db.Table(h.res.Table).Count(&total).Error; err != nil {
		return internalError(c, "Failed to count "+h.res.Path, err)
	}

	order := h.res.DefaultOrder
	if order == "" {
		order = h.res.IDColumns[0]
	}

	items := []map[string]interface{}{}
	err := h.db.Table(h.res.Table).
		Order(order).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error
	if err != nil {
		return internalError(c, "Failed to list "+h.res.Path, err)
	}

	return c.JSON(dto.PagedResponse{
		Items:      items,
		Pagination: buildPagination(page, pageSize, total),
	})
}

func (h *ResourceHandler) GetByID(c *fiber.Ctx) error {
	key, err := h.extractKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	row, err := h.fetchRow(h.db, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to fetch "+h.res.Path, err)
	}

	history, err := h.moderation.HistoryForTarget(h.res.Table, key)
	if err != nil {
		return internalError(c, "Failed to fetch moderation history", err)
	}

	out := make(map[string]interface{}, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	out["moderation_history"] = history
	return c.JSON(out)
}

func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil || body == nil {
		return badRequest(c, "Invalid payload")
	}
	data := filterFields(body, h.res.CreateFields)

	userID, isModerator, err := h.actor(c)
	if err != nil {
		return internalError(c, "Failed to resolve role", err)
	}

	if h.singleIDColumn() {
		if _, ok := data["id"]; !ok {
			data["id"] = uuid.NewString()
		}
	}

	if h.shouldModerate(userID, isModerator) {
		request, err := h.moderation.SubmitChange(userID, services.ChangeInput{
			TableName: h.res.Table,
			Operation: models.OpInsert,
			TargetKey: h.targetKeyFromData(data),
			DataNew:   data,
		})
		if err != nil {
			return moderationError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(dto.PendingResponse{
			Status:  models.RequestPending,
			Request: request,
		})
	}

	if userID != uuid.Nil && isModerator && !h.res.SkipModeration {
		var created map[string]interface{}
		err := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Table(h.res.Table).Create(data).Error; err != nil {
				return err
			}
			if key := h.targetKeyFromData(data); key != nil {
				created, _ = h.fetchRow(tx, key)
				_, err := h.moderation.LogAppliedChanges(tx, userID, []services.ChangeInput{{
					TableName: h.res.Table,
					Operation: models.OpInsert,
					TargetKey: key,
					DataNew:   data,
				}})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return badRequest(c, "Invalid data: "+err.Error())
		}
		if created == nil {
			created = data
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}

	if err := h.db.Table(h.res.Table).Create(data).Error; err != nil {
		return badRequest(c, "Invalid data: "+err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(data)
}

func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil || body == nil {
		return badRequest(c, "Invalid payload")
	}
	data := filterFields(body, h.res.UpdateFields)

	key, err := h.extractKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID, isModerator, err := h.actor(c)
	if err != nil {
		return internalError(c, "Failed to resolve role", err)
	}

	existing, err := h.fetchRow(h.db, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to fetch "+h.res.Path, err)
	}

	if h.shouldModerate(userID, isModerator) {
		request, err := h.moderation.SubmitChange(userID, services.ChangeInput{
			TableName: h.res.Table,
			Operation: models.OpUpdate,
			TargetKey: key,
			DataNew:   data,
			DataOld:   existing,
		})
		if err != nil {
			return moderationError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(dto.PendingResponse{
			Status:  models.RequestPending,
			Request: request,
		})
	}

	patch := make(map[string]interface{}, len(data))
	for k, v := range data {
		patch[k] = v
	}
	for _, col := range h.res.IDColumns {
		delete(patch, col)
	}

	if userID != uuid.Nil && isModerator && !h.res.SkipModeration {
		var updated map[string]interface{}
		err := h.db.Transaction(func(tx *gorm.DB) error {
			if len(patch) > 0 {
				if err := tx.Table(h.res.Table).Where(key).Updates(patch).Error; err != nil {
					return err
				}
			}
			_, err := h.moderation.LogAppliedChanges(tx, userID, []services.ChangeInput{{
				TableName: h.res.Table,
				Operation: models.OpUpdate,
				TargetKey: key,
				DataNew:   data,
				DataOld:   existing,
			}})
			if err != nil {
				return err
			}
			updated, err = h.fetchRow(tx, key)
			return err
		})
		if err != nil {
			return badRequest(c, "Invalid data: "+err.Error())
		}
		return c.JSON(updated)
	}

	if len(patch) > 0 {
		if err := h.db.Table(h.res.Table).Where(key).Updates(patch).Error; err != nil {
			return badRequest(c, "Invalid data: "+err.Error())
		}
	}
	updated, err := h.fetchRow(h.db, key)
	if err != nil {
		return internalError(c, "Failed to fetch "+h.res.Path, err)
	}
	return c.JSON(updated)
}

func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	key, err := h.extractKey(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID, isModerator, err := h.actor(c)
	if err != nil {
		return internalError(c, "Failed to resolve role", err)
	}

	existing, err := h.fetchRow(h.db, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to fetch "+h.res.Path, err)
	}

	if h.shouldModerate(userID, isModerator) {
		request, err := h.moderation.SubmitChange(userID, services.ChangeInput{
			TableName: h.res.Table,
			Operation: models.OpDelete,
			TargetKey: key,
			DataOld:   existing,
		})
		if err != nil {
			return moderationError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(dto.PendingResponse{
			Status:  models.RequestPending,
			Request: request,
		})
	}

	if userID != uuid.Nil && isModerator && !h.res.SkipModeration {
		err := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Table(h.res.Table).Where(key).Delete(nil).Error; err != nil {
				return err
			}
			_, err := h.moderation.LogAppliedChanges(tx, userID, []services.ChangeInput{{
				TableName: h.res.Table,
				Operation: models.OpDelete,
				TargetKey: key,
				DataOld:   existing,
			}})
			return err
		})
		if err != nil {
			return internalError(c, "Failed to delete "+h.res.Path, err)
		}
		return c.JSON(fiber.Map{"message": "Deleted"})
	}

	if err := h.db.Table(h.res.Table).Where(key).Delete(nil).Error; err != nil {
		return internalError(c, "Failed to delete "+h.res.Path, err)
	}
	return c.JSON(fiber.Map{"message": "Deleted"})
}

func moderationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTableNotAllowed):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrMissingUser), errors.Is(err, services.ErrMissingChanges):
		return badRequest(c, err.Error())
	default:
		return internalError(c, "Moderation staging failed", err)
	}
}
