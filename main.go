// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cenkalti/backoff/v5"
	"github.com/curioswitch/go-curiostack/server"
	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
	firebase "firebase.google.com/go/v4"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/blobstore"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/config"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/docstore"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/addmemory"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/adduserrecipe"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/autocomplete"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/deletedishes"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/deletememories"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/deleteuserrecipe"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/featuredrecipe"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/listdishes"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/listmemories"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/listuserrecipes"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/logcook"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/recipedetail"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/suggestions"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/trackdish"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/updatememory"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/updateuserrecipe"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/watchdishes"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/handler/watchmemories"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/httpapi"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/suggest"
)

//go:embed conf/*.yaml
var confFiles embed.FS

func main() {
	conf, _ := fs.Sub(confFiles, "conf")
	os.Exit(server.Main(&config.Config{}, conf, setupServer))
}

func setupServer(ctx context.Context, conf *config.Config, s *server.Server) error {
	mux := server.Mux(s)

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Google.Project})
	if err != nil {
		return fmt.Errorf("main: create firebase app: %w", err)
	}

	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		return fmt.Errorf("main: create firebase auth client: %w", err)
	}

	fsClient, err := fbApp.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("main: create firestore client: %w", err)
	}
	defer func() {
		if err := fsClient.Close(); err != nil {
			slog.ErrorContext(ctx, "main: close firestore client", "error", err)
		}
	}()

	gcs, err := storage.NewGRPCClient(ctx)
	if err != nil {
		return fmt.Errorf("main: create storage client: %w", err)
	}
	defer func() {
		if err := gcs.Close(); err != nil {
			slog.ErrorContext(ctx, "main: close storage client", "error", err)
		}
	}()
	publicBucket := conf.Google.Project + "-public"

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			slog.ErrorContext(ctx, "main: close redis client", "error", err)
		}
	}()
	if _, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, rdb.Ping(ctx).Err()
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(30*time.Second)); err != nil {
		return fmt.Errorf("main: pinging redis: %w", err)
	}

	cooks := cooklog.NewManager(docstore.NewFirestore(fsClient), blobstore.NewGCS(gcs, publicBucket))

	api := recipeapi.NewClient(http.DefaultClient, conf.Spoonacular.BaseURL, conf.Spoonacular.APIKey)
	cache := suggest.NewRedisCache(rdb)
	coord := suggest.NewCoordinator(api, cache, conf.Suggestions.FetchSize)

	fbMW := firebaseauth.NewMiddleware(fbAuth)
	mux.Use(middleware.Maybe(fbMW, func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/api/")
	}))

	httpapi.Handle(mux, "/api/cooklog/log", logcook.NewHandler(cooks).LogCook)
	httpapi.Handle(mux, "/api/cooklog/track", trackdish.NewHandler(cooks).TrackDish)
	httpapi.Handle(mux, "/api/cooklog/dishes", listdishes.NewHandler(cooks).ListDishes)
	httpapi.Handle(mux, "/api/cooklog/dishes/delete", deletedishes.NewHandler(cooks).DeleteDishes)
	httpapi.Handle(mux, "/api/cooklog/memories", listmemories.NewHandler(cooks).ListMemories)
	httpapi.Handle(mux, "/api/cooklog/memories/add", addmemory.NewHandler(cooks).AddMemory)
	httpapi.Handle(mux, "/api/cooklog/memories/update", updatememory.NewHandler(cooks).UpdateMemory)
	httpapi.Handle(mux, "/api/cooklog/memories/delete", deletememories.NewHandler(cooks).DeleteMemories)
	httpapi.Handle(mux, "/api/userrecipes", listuserrecipes.NewHandler(cooks).ListUserRecipes)
	httpapi.Handle(mux, "/api/userrecipes/add", adduserrecipe.NewHandler(cooks).AddUserRecipe)
	httpapi.Handle(mux, "/api/userrecipes/update", updateuserrecipe.NewHandler(cooks).UpdateUserRecipe)
	httpapi.Handle(mux, "/api/userrecipes/delete", deleteuserrecipe.NewHandler(cooks).DeleteUserRecipe)
	httpapi.Handle(mux, "/api/recipes/detail", recipedetail.NewHandler(api).RecipeDetail)
	httpapi.Handle(mux, "/api/recipes/autocomplete", autocomplete.NewHandler(api).Autocomplete)
	httpapi.Handle(mux, "/api/suggestions/featured", featuredrecipe.NewHandler(api, cache, coord).FeaturedRecipe)
	suggestHandler := suggestions.NewHandler(coord)
	httpapi.Handle(mux, "/api/suggestions/firstpage", suggestHandler.FirstPage)
	httpapi.Handle(mux, "/api/suggestions/more", suggestHandler.More)

	mux.Method(http.MethodGet, "/api/cooklog/dishes/watch", watchdishes.NewHandler(cooks))
	mux.Method(http.MethodGet, "/api/cooklog/memories/watch", watchmemories.NewHandler(cooks))

	if err := server.Start(ctx, s); err != nil {
		return fmt.Errorf("main: starting server: %w", err)
	}
	return nil
}
