package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

const studentsCollection = "students"

var studentIndexes = []uniqueIndex{
	{Name: "uk_students_email", Key: "email", Field: domain.FieldEmail},
}

type StudentRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{db: db, col: db.Collection(studentsCollection)}
}

type mongoStudent struct {
	ID          int64     `bson:"_id"`
	FirstName   string    `bson:"first_name"`
	LastName    string    `bson:"last_name"`
	Email       string    `bson:"email"`
	DateOfBirth time.Time `bson:"date_of_birth"`
}

func fromStudent(s *domain.Student) mongoStudent {
	return mongoStudent{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		DateOfBirth: s.DateOfBirth,
	}
}

func (ms mongoStudent) toDomain() *domain.Student {
	return &domain.Student{
		ID:          ms.ID,
		FirstName:   ms.FirstName,
		LastName:    ms.LastName,
		Email:       ms.Email,
		DateOfBirth: ms.DateOfBirth.UTC(),
	}
}

// List returns every student ordered by id.
func (r *StudentRepository) List(ctx context.Context) ([]*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoStudent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}

	out := make([]*domain.Student, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoStudent
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return ms.toDomain(), nil
}

func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, studentsCollection)
	if err != nil {
		return nil, err
	}

	doc := fromStudent(s)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, classifyWriteErr(err, studentIndexes)
	}
	return doc.toDomain(), nil
}

func (r *StudentRepository) Update(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromStudent(s)
	update := bson.M{"$set": bson.M{
		"first_name":    doc.FirstName,
		"last_name":     doc.LastName,
		"email":         doc.Email,
		"date_of_birth": doc.DateOfBirth,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": s.ID}, update)
	if err != nil {
		return nil, classifyWriteErr(err, studentIndexes)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrStudentNotFound
	}
	return doc.toDomain(), nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index on the students collection.
func (r *StudentRepository) EnsureIndexes(ctx context.Context) error {
	return ensureUniqueIndexes(ctx, r.col, studentIndexes)
}
