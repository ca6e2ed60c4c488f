package services

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"casino-service/internal/models"
	"casino-service/pkg/common"
)

// AuditService appends admin and system actions to the audit trail. Failures
// are logged, never propagated; an audit miss must not roll back the action
// it describes.
type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

func (s *AuditService) Record(actor, action, target, details string) {
	entry := models.AuditLog{
		Actor:   actor,
		Action:  action,
		Target:  target,
		Details: details,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Error().Err(err).Str("action", action).Str("target", target).
			Msg("failed to write audit log")
	}
}

func (s *AuditService) List(page, limit int) (common.PaginationResult, error) {
	var total int64
	query := s.DB.Model(&models.AuditLog{})
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}
	var entries []models.AuditLog
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(entries, total, page, limit, "Audit log fetched"), nil
}
