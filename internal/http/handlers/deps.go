package handlers

import (
	"github.com/jmoiron/sqlx"

	"appliancestore/internal/auth"
	"appliancestore/internal/config"
	"appliancestore/internal/repos"
	"appliancestore/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	SearchHandler   *SearchHandler
	AdminHandler    *AdminHandler
	FilterHandler   *FilterHandler
	SliderHandler   *SliderHandler
	ImportHandler   *ImportHandler
	UploadHandler   *UploadHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	filterRepo := repos.NewFilterRepo(db)
	sliderRepo := repos.NewSliderRepo(db)

	authSvc := services.NewAuthService(
		auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		auth.NewCodec(cfg.SessionSecret),
	)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo, filterRepo)
	filterSvc := services.NewFilterService(filterRepo, catRepo, prodRepo)
	sliderSvc := services.NewSliderService(sliderRepo)
	importSvc := services.NewImportService(services.NewRepoImportStore(catRepo, prodRepo))
	uploader := &Uploader{Dir: cfg.MediaDir}

	return &Deps{
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc, Sliders: sliderSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		AdminHandler:    &AdminHandler{Catalog: catalogSvc, Filters: filterSvc, Uploader: uploader},
		FilterHandler:   &FilterHandler{Catalog: catalogSvc, Filters: filterSvc},
		SliderHandler:   &SliderHandler{Sliders: sliderSvc, Uploader: uploader},
		ImportHandler:   &ImportHandler{Import: importSvc},
		UploadHandler:   &UploadHandler{Uploader: uploader},
	}
}
