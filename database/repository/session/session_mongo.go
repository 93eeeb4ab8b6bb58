package sessionRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"skillswap/config"
	"skillswap/database"
)

// MongoSessionRepo implements SessionRepository using MongoDB. calendarColl
// holds one marker document per user; every time-altering transaction bumps
// the markers of both participants so concurrent writes against the same
// calendar collide at the storage layer instead of committing side by side.
type MongoSessionRepo struct {
	sessionColl  *mongo.Collection
	calendarColl *mongo.Collection
}

// NewMongoSessionRepo constructs a new instance of MongoSessionRepo.
func NewMongoSessionRepo() SessionRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoSessionRepo{
		sessionColl:  db.Collection("sessions"),
		calendarColl: db.Collection("calendars"),
	}
}

// NewMongoSessionRepoWithCollections wires the repository onto explicit
// collections, used by integration tests.
func NewMongoSessionRepoWithCollections(sessions, calendars *mongo.Collection) SessionRepository {
	return &MongoSessionRepo{sessionColl: sessions, calendarColl: calendars}
}
