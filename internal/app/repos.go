package app

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
	"github.com/yungbote/shopgraph-backend/internal/repos"
)

type Repos struct {
	Users        repos.UserRepo
	Products     repos.ProductRepo
	Purchases    repos.PurchaseRepo
	Views        repos.ViewRepo
	Interactions repos.InteractionRepo
	Preferences  repos.PreferenceRepo
	Orders       repos.OrderRepo
}

func wireRepos(db *mongo.Database, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Users:        repos.NewUserRepo(db, log),
		Products:     repos.NewProductRepo(db, log),
		Purchases:    repos.NewPurchaseRepo(db, log),
		Views:        repos.NewViewRepo(db, log),
		Interactions: repos.NewInteractionRepo(db, log),
		Preferences:  repos.NewPreferenceRepo(db, log),
		Orders:       repos.NewOrderRepo(db, log),
	}
}
