package approval

import (
	"context"
	"time"

	"content-review/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApprovalRepository persists approval records and their append-only action
// log. Every Mark* method is a conditional transition: it only applies when
// the record's current status is one of the expected states and reports
// whether it matched, so a concurrent writer can detect the lost race
// instead of overwriting.
type ApprovalRepository interface {
	Create(ctx context.Context, rec *ApprovalRecord) error
	GetByID(ctx context.Context, id string) (*ApprovalRecord, error)
	List(ctx context.Context, filter ListFilter) ([]ApprovalRecord, int64, error)
	FindOverdue(ctx context.Context, now time.Time) ([]ApprovalRecord, error)

	MarkApproved(ctx context.Context, id string, expected []Status, approverID string, at time.Time) (bool, error)
	MarkAwaitingSecond(ctx context.Context, id string, expected []Status, firstApproverID, secondAssigneeID string, deadline time.Time) (bool, error)
	MarkRejected(ctx context.Context, id string, expected []Status, rejectorID, reason string, at time.Time) (bool, error)
	MarkEscalated(ctx context.Context, id string, expected []Status, escalatedTo string, at time.Time) (bool, error)
	SetPublishedPostID(ctx context.Context, id, postID string) error

	AppendAction(ctx context.Context, action ApprovalAction) error
	ListActions(ctx context.Context, approvalID string) ([]ApprovalAction, error)

	EnsureIndexes(ctx context.Context) error
}

type ApprovalRepositoryImpl struct {
	Records *mongo.Collection
	Actions *mongo.Collection
}

func NewApprovalRepository(mongodb *database.MongodbDB) ApprovalRepository {
	return &ApprovalRepositoryImpl{
		Records: mongodb.DB.Collection("approval_records"),
		Actions: mongodb.DB.Collection("approval_actions"),
	}
}

func (r *ApprovalRepositoryImpl) Create(ctx context.Context, rec *ApprovalRecord) error {
	_, err := r.Records.InsertOne(ctx, rec)
	return err
}

func (r *ApprovalRepositoryImpl) GetByID(ctx context.Context, id string) (*ApprovalRecord, error) {
	var rec ApprovalRecord
	err := r.Records.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ApprovalRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]ApprovalRecord, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}
		query["created_at"] = dateRange
	}

	total, err := r.Records.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip((filter.Page - 1) * filter.PerPage).
		SetLimit(filter.PerPage)

	cursor, err := r.Records.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []ApprovalRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *ApprovalRepositoryImpl) FindOverdue(ctx context.Context, now time.Time) ([]ApprovalRecord, error) {
	cursor, err := r.Records.Find(ctx, bson.M{
		"status":              bson.M{"$in": []Status{StatusPendingReview, StatusUnderReview}},
		"escalation_deadline": bson.M{"$lt": now},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []ApprovalRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// transition applies set/unset only when the record is in an expected state.
func (r *ApprovalRepositoryImpl) transition(ctx context.Context, id string, expected []Status, set bson.M, unset bson.M) (bool, error) {
	set["updated_at"] = time.Now()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.Records.UpdateOne(ctx, bson.M{
		"_id":    id,
		"status": bson.M{"$in": expected},
	}, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *ApprovalRepositoryImpl) MarkApproved(ctx context.Context, id string, expected []Status, approverID string, at time.Time) (bool, error) {
	return r.transition(ctx, id, expected, bson.M{
		"status":      StatusApproved,
		"approved_by": approverID,
		"approved_at": at,
	}, bson.M{"escalation_deadline": ""})
}

func (r *ApprovalRepositoryImpl) MarkAwaitingSecond(ctx context.Context, id string, expected []Status, firstApproverID, secondAssigneeID string, deadline time.Time) (bool, error) {
	return r.transition(ctx, id, expected, bson.M{
		"status":              StatusAwaitingSecondApproval,
		"first_approved_by":   firstApproverID,
		"assigned_to":         secondAssigneeID,
		"escalation_deadline": deadline,
	}, nil)
}

func (r *ApprovalRepositoryImpl) MarkRejected(ctx context.Context, id string, expected []Status, rejectorID, reason string, at time.Time) (bool, error) {
	return r.transition(ctx, id, expected, bson.M{
		"status":           StatusRejected,
		"rejected_by":      rejectorID,
		"rejected_at":      at,
		"rejection_reason": reason,
	}, bson.M{"escalation_deadline": ""})
}

func (r *ApprovalRepositoryImpl) MarkEscalated(ctx context.Context, id string, expected []Status, escalatedTo string, at time.Time) (bool, error) {
	return r.transition(ctx, id, expected, bson.M{
		"status":       StatusEscalated,
		"assigned_to":  escalatedTo,
		"escalated_to": escalatedTo,
		"escalated_at": at,
	}, bson.M{"escalation_deadline": ""})
}

func (r *ApprovalRepositoryImpl) SetPublishedPostID(ctx context.Context, id, postID string) error {
	_, err := r.Records.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"published_post_id": postID, "updated_at": time.Now()},
	})
	return err
}

func (r *ApprovalRepositoryImpl) AppendAction(ctx context.Context, action ApprovalAction) error {
	_, err := r.Actions.InsertOne(ctx, action)
	return err
}

func (r *ApprovalRepositoryImpl) ListActions(ctx context.Context, approvalID string) ([]ApprovalAction, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := r.Actions.Find(ctx, bson.M{"approval_id": approvalID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []ApprovalAction
	if err = cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *ApprovalRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Records.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "escalation_deadline", Value: 1}}},
		{Keys: bson.D{{Key: "content_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.Actions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "approval_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}
