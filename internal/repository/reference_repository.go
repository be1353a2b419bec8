package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/schedule-bot/internal/models"
)

// GroupRepository reads academic groups.
type GroupRepository struct {
	client    catalogClient
	validator *validator.Validate
}

// NewGroupRepository instantiates a group repository.
func NewGroupRepository(client catalogClient, validate *validator.Validate) *GroupRepository {
	return &GroupRepository{client: client, validator: defaultValidator(validate)}
}

// List returns all groups.
func (r *GroupRepository) List(ctx context.Context) ([]models.Group, error) {
	return list[models.Group](ctx, r.client, r.validator, "/api/group")
}

// RegionRepository reads regions and their timezones.
type RegionRepository struct {
	client    catalogClient
	validator *validator.Validate
}

// NewRegionRepository instantiates a region repository.
func NewRegionRepository(client catalogClient, validate *validator.Validate) *RegionRepository {
	return &RegionRepository{client: client, validator: defaultValidator(validate)}
}

// List returns all regions.
func (r *RegionRepository) List(ctx context.Context) ([]models.Region, error) {
	return list[models.Region](ctx, r.client, r.validator, "/api/Region")
}

// SemesterRepository reads academic semesters.
type SemesterRepository struct {
	client    catalogClient
	validator *validator.Validate
}

// NewSemesterRepository instantiates a semester repository.
func NewSemesterRepository(client catalogClient, validate *validator.Validate) *SemesterRepository {
	return &SemesterRepository{client: client, validator: defaultValidator(validate)}
}

// List returns all semesters.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	return list[models.Semester](ctx, r.client, r.validator, "/api/Semester")
}

// TeacherRepository reads the teacher directory.
type TeacherRepository struct {
	client    catalogClient
	validator *validator.Validate
}

// NewTeacherRepository instantiates a teacher repository.
func NewTeacherRepository(client catalogClient, validate *validator.Validate) *TeacherRepository {
	return &TeacherRepository{client: client, validator: defaultValidator(validate)}
}

// List returns all teachers.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	return list[models.Teacher](ctx, r.client, r.validator, "/api/Teacher")
}

// FindByID returns a teacher or appErrors.ErrNotFound.
func (r *TeacherRepository) FindByID(ctx context.Context, id int) (*models.Teacher, error) {
	const route = "/api/Teacher/{id}"
	var teacher models.Teacher
	if err := r.client.Get(ctx, fmt.Sprintf("/api/Teacher/%d", id), route, nil, &teacher); err != nil {
		return nil, err
	}
	if err := validateOne(r.validator, route, teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// SubjectRepository reads the subject catalog.
type SubjectRepository struct {
	client    catalogClient
	validator *validator.Validate
}

// NewSubjectRepository instantiates a subject repository.
func NewSubjectRepository(client catalogClient, validate *validator.Validate) *SubjectRepository {
	return &SubjectRepository{client: client, validator: defaultValidator(validate)}
}

// List returns the grouped subjects.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	return list[models.Subject](ctx, r.client, r.validator, "/api/Subject")
}

// FindByAbbreviation returns the details of a subject as taught to a group,
// or appErrors.ErrNotFound.
func (r *SubjectRepository) FindByAbbreviation(ctx context.Context, abbreviation string, groupID int) (*models.SubjectDetails, error) {
	const route = "/api/Subject/{abbreviation}"
	query := url.Values{"groupId": {strconv.Itoa(groupID)}}
	var details models.SubjectDetails
	if err := r.client.Get(ctx, "/api/Subject/"+url.PathEscape(abbreviation), route, query, &details); err != nil {
		return nil, err
	}
	if err := validateOne(r.validator, route, details); err != nil {
		return nil, err
	}
	return &details, nil
}
