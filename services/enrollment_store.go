package services

import (
	"context"
	"fmt"

	"github.com/vnkhanh/sloka-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Enroll links student and course. Enrolling twice is a no-op success.
// It returns false when either side does not exist.
func (s *CourseStore) Enroll(ctx context.Context, studentID, courseID uint) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var ok bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if ok, err = exists(tx, &models.Student{}, studentID); err != nil || !ok {
			return err
		}
		if ok, err = exists(tx, &models.Course{}, courseID); err != nil || !ok {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Enrollment{StudentID: studentID, CourseID: courseID}).Error
	})
	if err != nil {
		return false, storeErr(fmt.Sprintf("enroll student %d in course %d", studentID, courseID), err)
	}
	return ok, nil
}

// Unenroll reports whether a row was actually removed.
func (s *CourseStore) Unenroll(ctx context.Context, studentID, courseID uint) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).Delete(&models.Enrollment{})
		removed = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return false, storeErr(fmt.Sprintf("unenroll student %d from course %d", studentID, courseID), err)
	}
	return removed, nil
}

func (s *CourseStore) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&n).Error
	if err != nil {
		return false, storeErr("check enrollment", err)
	}
	return n > 0, nil
}

// StudentCourses lists the active courses a student is enrolled in, newest
// first, each with its full subtree.
func (s *CourseStore) StudentCourses(ctx context.Context, studentID uint) ([]models.Course, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	courses := []models.Course{}
	err := withSections(s.db.WithContext(ctx)).
		Joins("JOIN student_course ON student_course.course_id = courses.id").
		Where("student_course.student_id = ? AND courses.is_active = ?", studentID, true).
		Order("courses.created_at DESC").Order("courses.id DESC").
		Find(&courses).Error
	if err != nil {
		return nil, storeErr(fmt.Sprintf("list courses of student %d", studentID), err)
	}
	return courses, nil
}

// CourseStudents lists everyone enrolled, deactivated accounts included,
// newest first.
func (s *CourseStore) CourseStudents(ctx context.Context, courseID uint) ([]models.Student, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	students := []models.Student{}
	err := s.db.WithContext(ctx).
		Joins("JOIN student_course ON student_course.student_id = students.id").
		Where("student_course.course_id = ?", courseID).
		Order("students.created_at DESC").Order("students.id DESC").
		Find(&students).Error
	if err != nil {
		return nil, storeErr(fmt.Sprintf("list students of course %d", courseID), err)
	}
	return students, nil
}
