package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-auth-api/internal/domain"
)

// SignupRepo manages pending-signup records.
// PK: signup_id (derived from the email/mobile pair); email and mobile
// GSIs let verification find the record by either identity field.
type SignupRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSignupRepo(client *dynamodb.Client, tableName string) *SignupRepo {
	return &SignupRepo{client: client, tableName: tableName}
}

// Upsert writes the pending signup, overwriting any prior attempt that
// matches the same email or mobile. A prior record found under either
// field keeps its signup_id so the write stays a single-item overwrite;
// concurrent attempts for the same identity resolve last-writer-wins.
func (r *SignupRepo) Upsert(ctx context.Context, p *domain.PendingSignup) error {
	existing, err := r.GetByEmail(ctx, p.Email)
	if err != nil && errors.Is(err, domain.ErrNotFound) {
		existing, err = r.GetByMobile(ctx, p.Mobile)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil {
		p.SignupID = existing.SignupID
	} else if p.SignupID == "" {
		p.SignupID = domain.SignupKey(p.Email, p.Mobile)
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal pending signup: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SignupRepo) GetByEmail(ctx context.Context, email string) (*domain.PendingSignup, error) {
	return r.queryGSI(ctx, "email-index", "email", email)
}

func (r *SignupRepo) GetByMobile(ctx context.Context, mobile string) (*domain.PendingSignup, error) {
	return r.queryGSI(ctx, "mobile-index", "mobile", mobile)
}

func (r *SignupRepo) Delete(ctx context.Context, signupID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("signup_id", signupID),
	})
	return err
}

func (r *SignupRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.PendingSignup, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("pending signup by %s: %w", attr, domain.ErrNotFound)
	}
	var p domain.PendingSignup
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}
