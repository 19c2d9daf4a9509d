package database

import (
	"context"
	"errors"

	"labscan/internal/logger"
	"labscan/internal/types"
)

// DatabaseManager решает, стоит ли сохранять запись, и добавляет её в хранилище
type DatabaseManager struct {
	store  Store
	logger *logger.LoggerManager
}

// NewDatabaseManager создает новый экземпляр DatabaseManager
func NewDatabaseManager(store Store, loggerManager *logger.LoggerManager) *DatabaseManager {
	if loggerManager == nil {
		loggerManager = logger.Discard()
	}
	return &DatabaseManager{
		store:  store,
		logger: loggerManager,
	}
}

// Admissible запись принимается, если найден хотя бы один показатель,
// который есть в активной версии схемы. Дата не обязательна.
func Admissible(r types.PartialRecord, schemaVersion int) bool {
	return projectToSchema(r, schemaVersion).HasIndicator()
}

// AdmitAndStore сохраняет запись, если она допустима, и сообщает, была ли
// она сохранена. Ошибки хранилища возвращаются как *StorageError без повторов.
func (h *DatabaseManager) AdmitAndStore(ctx context.Context, r types.PartialRecord) (bool, error) {
	if err := r.Validate(); err != nil {
		h.logger.Warn("⚠️ Запись отклонена: %v", err)
		return false, nil
	}
	if !Admissible(r, h.store.SchemaVersion()) {
		h.logger.Debug("Показатели не найдены, запись пропущена")
		return false, nil
	}

	stored, err := h.store.Append(ctx, r)
	if err != nil {
		if !errors.Is(err, ErrStorage) {
			err = storageErr("вставка записи", err)
		}
		return false, err
	}

	h.logger.Info("✅ Данные общего анализа крови сохранены с ID: %d, дата: %s",
		stored.ID, stored.Date.Format(types.DateLayout))
	return true, nil
}

// Store хранилище, с которым работает менеджер
func (h *DatabaseManager) Store() Store {
	return h.store
}
