package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/vnkhanh/sloka-backend/models"
	"gorm.io/gorm"
)

const DefaultPageLimit = 100

type NewCourse struct {
	Title       string
	Description *string
	Content     *string
	Instructor  *string
	Duration    *string
}

type NewSection struct {
	CourseID    uint
	Title       string
	Description *string
	OrderIndex  int
}

type NewDocument struct {
	SectionID   uint
	Title       string
	FileURL     string
	FileType    models.FileType
	OrderIndex  int
	DurationSec *float64
	PageCount   *int
}

type ListOptions struct {
	Skip            int
	Limit           int
	IncludeInactive bool
}

// CourseStore owns the course -> section -> document tree and the
// enrollment relation. Every write runs in its own transaction. Reads of a
// course or section always carry the complete ordered subtree. Lookups
// return nil with a nil error when the row does not exist.
type CourseStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewCourseStore(db *gorm.DB, opts ...StoreOption) *CourseStore {
	o := applyStoreOptions(opts)
	return &CourseStore{db: db, timeout: o.timeout}
}

func (s *CourseStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithTimeout(ctx, DefaultQueryTimeout)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func siblingOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC").Order("created_at ASC").Order("id ASC")
}

func withSections(db *gorm.DB) *gorm.DB {
	return db.Preload("Sections", siblingOrder).Preload("Sections.Documents", siblingOrder)
}

func withDocuments(db *gorm.DB) *gorm.DB {
	return db.Preload("Documents", siblingOrder)
}

func exists(tx *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *CourseStore) CreateCourse(ctx context.Context, in NewCourse) (*models.Course, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	course := &models.Course{
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Description: in.Description,
		Content:     in.Content,
		Instructor:  in.Instructor,
		Duration:    in.Duration,
		IsActive:    true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(course).Error
	})
	if err != nil {
		return nil, storeErr("create course", err)
	}
	course.Sections = []models.Section{}
	return course, nil
}

// GetCourse returns the course whether or not it is archived.
func (s *CourseStore) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.findCourse(s.db.WithContext(ctx), id, true)
}

// GetActiveCourse hides archived courses.
func (s *CourseStore) GetActiveCourse(ctx context.Context, id uint) (*models.Course, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.findCourse(s.db.WithContext(ctx), id, false)
}

func (s *CourseStore) findCourse(db *gorm.DB, id uint, includeInactive bool) (*models.Course, error) {
	var course models.Course
	q := withSections(db).Where("id = ?", id)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(fmt.Sprintf("find course %d", id), err)
	}
	return &course, nil
}

func (s *CourseStore) ListCourses(ctx context.Context, opts ListOptions) ([]models.Course, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if opts.Limit <= 0 {
		opts.Limit = DefaultPageLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	courses := []models.Course{}
	q := withSections(s.db.WithContext(ctx))
	if !opts.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(opts.Skip).Limit(opts.Limit).
		Find(&courses).Error
	if err != nil {
		return nil, storeErr("list courses", err)
	}
	return courses, nil
}

// UpdateCourse applies patch and returns the refreshed course. An empty
// patch writes nothing and returns the current state.
func (s *CourseStore) UpdateCourse(ctx context.Context, id uint, patch CoursePatch) (*models.Course, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if patch.Empty() {
		return s.GetCourse(ctx, id)
	}
	var course *models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Course{}, id)
		if err != nil || !ok {
			return err
		}
		if err := tx.Model(&models.Course{}).Where("id = ?", id).Updates(patch.Fields()).Error; err != nil {
			return err
		}
		course, err = s.findCourse(tx, id, true)
		return err
	})
	if err != nil {
		return nil, storeErr(fmt.Sprintf("update course %d", id), err)
	}
	return course, nil
}

// ArchiveCourse flips is_active off. Sections and documents are untouched.
func (s *CourseStore) ArchiveCourse(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var archived bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Course{}).Where("id = ?", id).Update("is_active", false)
		archived = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return false, storeErr(fmt.Sprintf("archive course %d", id), err)
	}
	return archived, nil
}

// CreateSection returns nil when the parent course does not exist.
func (s *CourseStore) CreateSection(ctx context.Context, in NewSection) (*models.Section, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var section *models.Section
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Course{}, in.CourseID)
		if err != nil || !ok {
			return err
		}
		section = &models.Section{
			CourseID:    in.CourseID,
			Title:       in.Title,
			Description: in.Description,
			OrderIndex:  in.OrderIndex,
		}
		return tx.Create(section).Error
	})
	if err != nil {
		return nil, storeErr("create section", err)
	}
	if section != nil {
		section.Documents = []models.Document{}
	}
	return section, nil
}

func (s *CourseStore) GetSection(ctx context.Context, id uint) (*models.Section, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.findSection(s.db.WithContext(ctx), id)
}

func (s *CourseStore) findSection(db *gorm.DB, id uint) (*models.Section, error) {
	var section models.Section
	if err := withDocuments(db).Where("id = ?", id).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(fmt.Sprintf("find section %d", id), err)
	}
	return &section, nil
}

// ListSections returns the course's sections in display order.
func (s *CourseStore) ListSections(ctx context.Context, courseID uint) ([]models.Section, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	sections := []models.Section{}
	err := siblingOrder(withDocuments(s.db.WithContext(ctx))).
		Where("course_id = ?", courseID).
		Find(&sections).Error
	if err != nil {
		return nil, storeErr(fmt.Sprintf("list sections of course %d", courseID), err)
	}
	return sections, nil
}

func (s *CourseStore) UpdateSection(ctx context.Context, id uint, patch SectionPatch) (*models.Section, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if patch.Empty() {
		return s.GetSection(ctx, id)
	}
	var section *models.Section
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Section{}, id)
		if err != nil || !ok {
			return err
		}
		if err := tx.Model(&models.Section{}).Where("id = ?", id).Updates(patch.Fields()).Error; err != nil {
			return err
		}
		section, err = s.findSection(tx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(fmt.Sprintf("update section %d", id), err)
	}
	return section, nil
}

// PurgeSection hard-deletes the section. Its documents go with it through
// the ON DELETE CASCADE foreign key.
func (s *CourseStore) PurgeSection(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Section{})
		removed = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return false, storeErr(fmt.Sprintf("purge section %d", id), err)
	}
	return removed, nil
}

// AddDocument returns nil when the parent section does not exist.
func (s *CourseStore) AddDocument(ctx context.Context, in NewDocument) (*models.Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var doc *models.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Section{}, in.SectionID)
		if err != nil || !ok {
			return err
		}
		doc = &models.Document{
			SectionID:   in.SectionID,
			Title:       in.Title,
			FileURL:     in.FileURL,
			FileType:    in.FileType,
			OrderIndex:  in.OrderIndex,
			DurationSec: in.DurationSec,
			PageCount:   in.PageCount,
		}
		return tx.Create(doc).Error
	})
	if err != nil {
		return nil, storeErr("add document", err)
	}
	return doc, nil
}

func (s *CourseStore) DeleteDocument(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Document{})
		removed = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return false, storeErr(fmt.Sprintf("delete document %d", id), err)
	}
	return removed, nil
}

// CourseIDOfSection returns the owning course id, or 0 when the section
// does not exist.
func (s *CourseStore) CourseIDOfSection(ctx context.Context, sectionID uint) (uint, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Section{}).
		Where("id = ?", sectionID).Limit(1).Pluck("course_id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, storeErr(fmt.Sprintf("course of section %d", sectionID), err)
	}
	return ids[0], nil
}

func (s *CourseStore) CourseIDOfDocument(ctx context.Context, documentID uint) (uint, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Document{}).
		Joins("JOIN course_sections ON course_sections.id = section_documents.section_id").
		Where("section_documents.id = ?", documentID).Limit(1).
		Pluck("course_sections.course_id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, storeErr(fmt.Sprintf("course of document %d", documentID), err)
	}
	return ids[0], nil
}
