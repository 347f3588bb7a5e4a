// seed prepara una empresa para operar: crea la empresa y su administrador (si no existen) e
// importa opcionalmente el catálogo de productos desde un CSV exportado de la planilla anterior.
//
// Uso:
//
//	go run ./cmd/seed -company "Tienda Centro" -document 900123456 \
//	    -admin-email admin@tienda.com -admin-password secreto123 [-csv productos.csv]
//
// Con -company-id se reutiliza una empresa existente. El stock inicial de cada producto se
// registra como movimiento de entrada, igual que al crearlo por la API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/stockpro/internal/application/auth"
	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/application/usecase"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/internal/infrastructure/postgres"
	"github.com/jhoicas/stockpro/pkg/config"
	"github.com/jhoicas/stockpro/pkg/logger"
)

type options struct {
	companyID     string
	companyName   string
	document      string
	adminEmail    string
	adminPassword string
	csvPath       string
}

func main() {
	var opts options
	flag.StringVar(&opts.companyID, "company-id", "", "empresa existente (omite la creación)")
	flag.StringVar(&opts.companyName, "company", "", "nombre de la empresa a crear")
	flag.StringVar(&opts.document, "document", "", "documento (CNPJ/NIT) de la empresa a crear")
	flag.StringVar(&opts.adminEmail, "admin-email", "", "email del administrador")
	flag.StringVar(&opts.adminPassword, "admin-password", "", "contraseña del administrador (mín. 8)")
	flag.StringVar(&opts.csvPath, "csv", "", "catálogo a importar (ISO-8859-1, separado por ';')")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.adminEmail == "" {
		return errors.New("-admin-email es obligatorio")
	}
	if opts.companyID == "" && (opts.companyName == "" || opts.document == "") {
		return errors.New("indique -company-id o bien -company y -document")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.App.Storage != config.StoragePostgres {
		return fmt.Errorf("el seed requiere STORAGE_DRIVER=%s", config.StoragePostgres)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}

	companies := postgres.NewCompanyRepository(pool)
	users := postgres.NewUserRepository(pool)
	categories := postgres.NewCategoryRepository(pool)
	products := postgres.NewProductRepository(pool)

	companyID := opts.companyID
	if companyID == "" {
		company, err := usecase.NewCompanyUseCase(companies).Create(ctx, dto.CreateCompanyRequest{
			Name:     opts.companyName,
			Document: opts.document,
		})
		if err != nil {
			return fmt.Errorf("crear empresa: %w", err)
		}
		companyID = company.ID
		log.Info().Str("company_id", companyID).Str("name", company.Name).Msg("empresa creada")
	}

	adminID, err := ensureAdmin(ctx, users, companies, companyID, opts.adminEmail, opts.adminPassword, cfg.JWT)
	if err != nil {
		return err
	}
	log.Info().Str("user_id", adminID).Str("email", opts.adminEmail).Msg("administrador listo")

	if opts.csvPath == "" {
		return nil
	}
	f, err := os.Open(opts.csvPath)
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()
	rows, err := readCatalog(f)
	if err != nil {
		// Las filas válidas se importan igual; las inválidas quedan en el log.
		log.Warn().Err(err).Msg("filas descartadas del CSV")
	}

	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
	imp := importer{
		companyID:  companyID,
		userID:     adminID,
		categories: categories,
		categoryUC: usecase.NewCategoryUseCase(txRunner, categories),
		productUC:  usecase.NewProductUseCase(txRunner, products, ports.NopCache{}, log),
		log:        log,
	}
	res, err := imp.run(ctx, rows)
	if err != nil {
		return err
	}
	log.Info().
		Int("created", res.created).
		Int("skipped", res.skipped).
		Int("categories", res.categories).
		Msg("catálogo importado")
	return nil
}

// ensureAdmin devuelve el usuario con ese email o lo registra como admin de la empresa.
func ensureAdmin(ctx context.Context, users repository.UserRepository, companies repository.CompanyRepository,
	companyID, email, password string, jwtCfg config.JWTConfig) (string, error) {
	existing, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if existing != nil {
		if existing.CompanyID != companyID {
			return "", fmt.Errorf("el email %s pertenece a otra empresa", email)
		}
		return existing.ID, nil
	}
	if len(password) < 8 {
		return "", errors.New("-admin-password debe tener al menos 8 caracteres")
	}
	authUC := auth.NewAuthUseCase(users, companies, auth.JWTConfig{
		Secret:     jwtCfg.Secret,
		ExpMinutes: jwtCfg.Expiration,
		Issuer:     jwtCfg.Issuer,
	})
	user, err := authUC.BootstrapAdmin(ctx, dto.RegisterRequest{
		Email:     email,
		Password:  password,
		CompanyID: companyID,
		Name:      "Administrador",
	})
	if err != nil {
		return "", fmt.Errorf("registrar administrador: %w", err)
	}
	return user.ID, nil
}

type importResult struct {
	created    int
	skipped    int
	categories int
}

// importer da de alta las filas del catálogo; las categorías se crean al vuelo por nombre.
type importer struct {
	companyID  string
	userID     string
	categories repository.CategoryRepository
	categoryUC *usecase.CategoryUseCase
	productUC  *usecase.ProductUseCase
	log        *logger.Logger
}

func (imp importer) run(ctx context.Context, rows []catalogRow) (importResult, error) {
	var res importResult
	known := map[string]string{}
	for _, row := range rows {
		if row.Category != "" {
			id, created, err := imp.category(ctx, known, row.Category)
			if err != nil {
				return res, fmt.Errorf("línea %d: categoría %q: %w", row.Line, row.Category, err)
			}
			if created {
				res.categories++
			}
			row.Product.CategoryID = id
		}
		_, err := imp.productUC.Create(ctx, imp.companyID, imp.userID, row.Product)
		switch {
		case err == nil:
			res.created++
		case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrInvalidInput):
			res.skipped++
			imp.log.Warn().Err(err).Int("line", row.Line).Str("code", row.Product.Code).Msg("producto omitido")
		default:
			return res, fmt.Errorf("línea %d: %w", row.Line, err)
		}
	}
	return res, nil
}

func (imp importer) category(ctx context.Context, known map[string]string, name string) (string, bool, error) {
	key := strings.ToLower(name)
	if id, ok := known[key]; ok {
		return id, false, nil
	}
	existing, err := imp.categories.GetByName(ctx, imp.companyID, name)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		known[key] = existing.ID
		return existing.ID, false, nil
	}
	created, err := imp.categoryUC.Create(ctx, imp.companyID, dto.CreateCategoryRequest{Name: name})
	if err != nil {
		return "", false, err
	}
	known[key] = created.ID
	return created.ID, true, nil
}
