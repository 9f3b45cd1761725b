package repository

import (
	"Orion_Tube/internal/model"
	"context"

	"gorm.io/gorm"
)

// EngagementFilter 除SubjectType外，空字段表示“不限”
type EngagementFilter struct {
	SubjectType model.SubjectType
	SubjectID   string
	ActorID     string
	Kind        model.EngagementKind
}

// SubjectCounts subjectID -> kind -> 行数
type SubjectCounts map[string]map[model.EngagementKind]int64

// Get 缺失的subject或kind返回0
func (c SubjectCounts) Get(subjectID string, kind model.EngagementKind) int64 {
	return c[subjectID][kind]
}

// SubjectFlags subjectID -> kind -> 是否存在
type SubjectFlags map[string]map[model.EngagementKind]bool

func (f SubjectFlags) Has(subjectID string, kind model.EngagementKind) bool {
	return f[subjectID][kind]
}

type EngagementRepository interface {
	Create(ctx context.Context, event *model.EngagementEvent) error
	Count(ctx context.Context, filter EngagementFilter) (int64, error)
	Exists(ctx context.Context, filter EngagementFilter) (bool, error)
	FindMany(ctx context.Context, filter EngagementFilter) ([]model.EngagementEvent, error)
	// 删除所有匹配行，返回删除数，用来发现历史遗留的重复数据
	DeleteMany(ctx context.Context, filter EngagementFilter) (int64, error)

	// 批量版本：一条GROUP BY代替“每个subject每种kind一条COUNT”
	CountBySubjects(ctx context.Context, subjectType model.SubjectType, subjectIDs []string, kinds ...model.EngagementKind) (SubjectCounts, error)
	// 某个actor在一批subject上做过哪些kind
	FlagsByActor(ctx context.Context, actorID string, subjectType model.SubjectType, subjectIDs []string, kinds ...model.EngagementKind) (SubjectFlags, error)

	WithTx(tx *gorm.DB) EngagementRepository
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) WithTx(tx *gorm.DB) EngagementRepository {
	return &engagementRepository{db: tx}
}

func (r *engagementRepository) filtered(ctx context.Context, filter EngagementFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.EngagementEvent{})
	if filter.SubjectType != "" {
		q = q.Where("subject_type = ?", filter.SubjectType)
	}
	if filter.SubjectID != "" {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	return q
}

func (r *engagementRepository) Create(ctx context.Context, event *model.EngagementEvent) error {
	if event.DedupKey == nil {
		event.DedupKey = model.DedupKeyFor(event.ActorID, event.SubjectType, event.SubjectID, event.Kind)
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *engagementRepository) Count(ctx context.Context, filter EngagementFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// 只关心“有没有”，LIMIT 1即可，不用COUNT整张表
func (r *engagementRepository) Exists(ctx context.Context, filter EngagementFilter) (bool, error) {
	var ids []uint64
	err := r.filtered(ctx, filter).Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *engagementRepository) FindMany(ctx context.Context, filter EngagementFilter) ([]model.EngagementEvent, error) {
	var events []model.EngagementEvent
	err := r.filtered(ctx, filter).Order("id asc").Find(&events).Error
	return events, err
}

func (r *engagementRepository) DeleteMany(ctx context.Context, filter EngagementFilter) (int64, error) {
	result := r.filtered(ctx, filter).Delete(&model.EngagementEvent{})
	return result.RowsAffected, result.Error
}

type subjectKindCount struct {
	SubjectID string
	Kind      model.EngagementKind
	Total     int64
}

func (r *engagementRepository) CountBySubjects(ctx context.Context, subjectType model.SubjectType, subjectIDs []string, kinds ...model.EngagementKind) (SubjectCounts, error) {
	counts := SubjectCounts{}
	if len(subjectIDs) == 0 {
		return counts, nil
	}
	var rows []subjectKindCount
	q := r.db.WithContext(ctx).Model(&model.EngagementEvent{}).
		Select("subject_id, kind, COUNT(*) AS total").
		Where("subject_type = ? AND subject_id IN ?", subjectType, subjectIDs)
	if len(kinds) > 0 {
		q = q.Where("kind IN ?", kinds)
	}
	if err := q.Group("subject_id, kind").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if counts[row.SubjectID] == nil {
			counts[row.SubjectID] = map[model.EngagementKind]int64{}
		}
		counts[row.SubjectID][row.Kind] = row.Total
	}
	return counts, nil
}

func (r *engagementRepository) FlagsByActor(ctx context.Context, actorID string, subjectType model.SubjectType, subjectIDs []string, kinds ...model.EngagementKind) (SubjectFlags, error) {
	flags := SubjectFlags{}
	if actorID == "" || len(subjectIDs) == 0 {
		return flags, nil
	}
	var rows []subjectKindCount
	q := r.db.WithContext(ctx).Model(&model.EngagementEvent{}).
		Select("DISTINCT subject_id, kind").
		Where("subject_type = ? AND actor_id = ? AND subject_id IN ?", subjectType, actorID, subjectIDs)
	if len(kinds) > 0 {
		q = q.Where("kind IN ?", kinds)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if flags[row.SubjectID] == nil {
			flags[row.SubjectID] = map[model.EngagementKind]bool{}
		}
		flags[row.SubjectID][row.Kind] = true
	}
	return flags, nil
}
