package documents

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocID_Present(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := bson.D{
		{Key: "_id", Value: oid},
		{Key: "speaker", Value: "Alice"},
	}
	id, ok := docID(doc)
	if !ok || id != oid.Hex() {
		t.Fatalf("expected %q, got %q (ok=%v)", oid.Hex(), id, ok)
	}
}

func TestDocID_Absent(t *testing.T) {
	if _, ok := docID(bson.D{{Key: "speaker", Value: "Alice"}}); ok {
		t.Fatal("expected no id")
	}
}

func TestDocID_WrongType(t *testing.T) {
	if _, ok := docID(bson.D{{Key: "_id", Value: "not-an-oid"}}); ok {
		t.Fatal("expected no id for non-ObjectID _id")
	}
}
