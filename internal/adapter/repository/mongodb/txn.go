package mongodb

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// runTxn executes fn inside a multi-document transaction when the
// deployment supports one (replica set or mongos). On a standalone server
// the writes run sequentially instead, which leaves the documented
// consistency gap between the two writes if the process dies in between.
func runTxn(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && transactionsUnsupported(err) {
		return fn(ctx)
	}
	return err
}

func transactionsUnsupported(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "transactions are not supported") ||
		strings.Contains(msg, "IllegalOperation")
}
