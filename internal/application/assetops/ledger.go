package assetops

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
	"github.com/jhoicas/activos-api/internal/domain/workflow"
	"github.com/jhoicas/activos-api/pkg/logger"
)

// LedgerUseCase libro de custodia de activos: mutaciones unitarias y por lote,
// siempre con una entrada de bitácora por activo mutado. El lote es
// todo-o-nada: se aplica dentro de una transacción con las filas del conjunto
// bloqueadas, de modo que un fallo en cualquier activo revierte el lote completo.
type LedgerUseCase struct {
	txRunner  TxRunner
	assetRepo repository.AssetRepository
	log       *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, assetRepo repository.AssetRepository, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, assetRepo: assetRepo, log: log}
}

// UpdateOne aplica un patch a un activo y registra la entrada de bitácora.
func (uc *LedgerUseCase) UpdateOne(ctx context.Context, assetID string, patch entity.AssetPatch, actor, detail string) (*entity.Asset, error) {
	var updated *entity.Asset
	err := uc.txRunner.RunAssets(ctx, func(assetRepo repository.AssetRepository) error {
		now := time.Now()
		asset, err := assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if err := patch.Apply(asset, now); err != nil {
			return err
		}
		if err := assetRepo.Update(ctx, asset); err != nil {
			return err
		}
		if err := assetRepo.AppendActivity(ctx, &entity.ActivityEntry{
			ID:        uuid.New().String(),
			AssetID:   asset.ID,
			Actor:     actor,
			Action:    entity.ActivityUpdated,
			Detail:    detail,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("asset_id", assetID).Str("actor", actor).Msg("activo actualizado")
	return updated, nil
}

// UpdateBatch aplica el mismo patch a todos los activos listados, con una
// entrada de bitácora por activo enlazada al documento de referencia.
func (uc *LedgerUseCase) UpdateBatch(ctx context.Context, assetIDs []string, patch entity.AssetPatch, actor, detail string, referenceID *string) error {
	if len(assetIDs) == 0 {
		return nil
	}
	err := uc.txRunner.RunAssets(ctx, func(assetRepo repository.AssetRepository) error {
		now := time.Now()
		assets, err := assetRepo.GetManyForUpdate(ctx, assetIDs)
		if err != nil {
			return err
		}
		for _, asset := range assets {
			if err := patch.Apply(asset, now); err != nil {
				return err
			}
			if err := assetRepo.Update(ctx, asset); err != nil {
				return err
			}
			if err := assetRepo.AppendActivity(ctx, &entity.ActivityEntry{
				ID:          uuid.New().String(),
				AssetID:     asset.ID,
				Actor:       actor,
				Action:      entity.ActivityUpdated,
				Detail:      detail,
				ReferenceID: referenceID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int("count", len(assetIDs)).Str("actor", actor).Msg("lote de activos actualizado")
	return nil
}

// GetByID lee un activo fuera de transacción.
func (uc *LedgerUseCase) GetByID(ctx context.Context, assetID string) (*entity.Asset, error) {
	return uc.assetRepo.GetByID(ctx, assetID)
}

// ListActivity bitácora de un activo, más reciente primero.
func (uc *LedgerUseCase) ListActivity(ctx context.Context, assetID string, limit, offset int) ([]*entity.ActivityEntry, error) {
	return uc.assetRepo.ListActivity(ctx, assetID, limit, offset)
}

// applyAssetEvents aplica los eventos de una transición al libro de custodia,
// dentro de la misma transacción de la transición. Cada evento bloquea su
// conjunto de activos, aplica el patch correspondiente y agrega bitácora.
func applyAssetEvents(ctx context.Context, assetRepo repository.AssetRepository, events []workflow.AssetEvent, actor string, now time.Time) error {
	for _, ev := range events {
		patch, action := eventPatch(ev)
		assets, err := assetRepo.GetManyForUpdate(ctx, ev.AssetIDs)
		if err != nil {
			return err
		}
		refID := ev.ReferenceID
		for _, asset := range assets {
			if err := patch.Apply(asset, now); err != nil {
				return err
			}
			if err := assetRepo.Update(ctx, asset); err != nil {
				return err
			}
			if err := assetRepo.AppendActivity(ctx, &entity.ActivityEntry{
				ID:          uuid.New().String(),
				AssetID:     asset.ID,
				Actor:       actor,
				Action:      action,
				Detail:      ev.Detail,
				ReferenceID: &refID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// eventPatch traduce un evento de workflow al patch de custodia y la acción de bitácora.
func eventPatch(ev workflow.AssetEvent) (entity.AssetPatch, string) {
	switch ev.Kind {
	case workflow.EventAssetsAssigned:
		st := entity.AssetInUse
		holder := ev.Holder
		return entity.AssetPatch{Status: &st, Holder: &holder}, entity.ActivityAssigned
	case workflow.EventAssetsAwaitingReturn:
		st := entity.AssetAwaitingReturn
		return entity.AssetPatch{Status: &st}, entity.ActivityAwaitingReturn
	case workflow.EventAssetsReleased:
		st := entity.AssetInStorage
		return entity.AssetPatch{Status: &st, Condition: ev.Condition, ClearHolder: true}, entity.ActivityReleased
	case workflow.EventAssetsDamaged:
		st := entity.AssetDamaged
		return entity.AssetPatch{Status: &st, Condition: ev.Condition, ClearHolder: true}, entity.ActivityDamaged
	}
	return entity.AssetPatch{}, entity.ActivityUpdated
}
