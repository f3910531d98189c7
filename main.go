package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"centavo/backend/config"
	"centavo/backend/database"
	"centavo/backend/handlers"
	"centavo/backend/middleware"
	"centavo/backend/migrations"
	"centavo/backend/services"

	"github.com/gorilla/mux"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	runBackfill := flag.Bool("backfill", false, "Run the fatura backfill once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	err = database.InitDB(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}

	// Run migrations (including test data seeding if in dev/PR environment)
	log.Println("Running migrations...")
	err = migrations.RunMigrations(database.DB)
	if err != nil {
		log.Printf("Warning: Failed to run migrations: %v", err)
	}

	if *runBackfill {
		result, err := services.BackfillFaturaTransfers()
		if err != nil {
			log.Fatalf("Backfill failed after creating %d transfer(s): %v", result.Created, err)
		}
		log.Printf("Backfill completed, created %d transfer(s)", result.Created)
		return
	}

	if cfg.Scheduler.Enabled {
		services.StartScheduler()
	}

	// Create router
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.EnableCORS(cfg.CORS.AllowedOrigins))

	// Register routes with both direct paths and /api prefix to maintain compatibility
	registerRoutes(r)
	apiRouter := r.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter)

	// Configure the server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         ":" + port,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
	}

	// Start the server
	log.Printf("Starting server on port %s...", port)
	log.Fatal(srv.ListenAndServe())
}

// registerRoutes sets up all API routes
func registerRoutes(r *mux.Router) {
	// Public routes (no auth required)
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET", "OPTIONS")

	// Create a subrouter for authenticated routes
	protectedRouter := r.PathPrefix("").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware)

	// Account routes
	protectedRouter.HandleFunc("/accounts", handlers.GetAccounts).Methods("GET")
	protectedRouter.HandleFunc("/accounts", handlers.AddAccount).Methods("POST")
	protectedRouter.HandleFunc("/accounts/{id}/balance", handlers.GetAccountBalance).Methods("GET")
	protectedRouter.HandleFunc("/accounts/{id}/balance/sync", handlers.SyncAccountBalance).Methods("POST")
	protectedRouter.HandleFunc("/accounts/{id}/faturas", handlers.GetFaturas).Methods("GET")
	protectedRouter.HandleFunc("/accounts/{id}/faturas/{yearMonth}", handlers.GetFatura).Methods("GET")

	// Expense routes (transaction + installment entries)
	protectedRouter.HandleFunc("/expenses", handlers.GetExpenses).Methods("GET")
	protectedRouter.HandleFunc("/expenses", handlers.AddExpense).Methods("POST")
	protectedRouter.HandleFunc("/expenses/{id}", handlers.UpdateExpense).Methods("PUT")
	protectedRouter.HandleFunc("/expenses/{id}", handlers.DeleteExpense).Methods("DELETE")

	// Income routes
	protectedRouter.HandleFunc("/incomes", handlers.GetIncomes).Methods("GET")
	protectedRouter.HandleFunc("/incomes", handlers.AddIncome).Methods("POST")
	protectedRouter.HandleFunc("/incomes/{id}", handlers.UpdateIncome).Methods("PUT")
	protectedRouter.HandleFunc("/incomes/{id}", handlers.DeleteIncome).Methods("DELETE")
	protectedRouter.HandleFunc("/incomes/{id}/receive", handlers.MarkIncomeReceived).Methods("POST")
	protectedRouter.HandleFunc("/incomes/{id}/pending", handlers.MarkIncomePending).Methods("POST")

	// Transfer routes
	protectedRouter.HandleFunc("/transfers", handlers.GetTransfers).Methods("GET")
	protectedRouter.HandleFunc("/transfers", handlers.AddTransfer).Methods("POST")
	protectedRouter.HandleFunc("/transfers/{id}", handlers.UpdateTransfer).Methods("PUT")
	protectedRouter.HandleFunc("/transfers/{id}", handlers.DeleteTransfer).Methods("DELETE")
	protectedRouter.HandleFunc("/transfers/{id}/toggle-ignore", handlers.ToggleTransferIgnored).Methods("POST")

	// Fatura payment and reconciliation routes
	protectedRouter.HandleFunc("/faturas/{id}/pay", handlers.PayFatura).Methods("POST")
	protectedRouter.HandleFunc("/reconcile/backfill", handlers.BackfillFaturaTransfers).Methods("POST")

	// Refund routes
	protectedRouter.HandleFunc("/refunds", handlers.AddRefund).Methods("POST")
	protectedRouter.HandleFunc("/refunds/{id}", handlers.DeleteRefund).Methods("DELETE")

	// Category routes
	protectedRouter.HandleFunc("/categories", handlers.GetCategories).Methods("GET")
	protectedRouter.HandleFunc("/categories", handlers.AddCategory).Methods("POST")
	protectedRouter.HandleFunc("/categories/{id}", handlers.DeleteCategory).Methods("DELETE")

	// Budget routes
	protectedRouter.HandleFunc("/budgets", handlers.GetBudgets).Methods("GET")
	protectedRouter.HandleFunc("/budgets", handlers.SetBudget).Methods("PUT")
	protectedRouter.HandleFunc("/budgets/{id}", handlers.DeleteBudget).Methods("DELETE")
	protectedRouter.HandleFunc("/budgets/progress", handlers.GetBudgetProgress).Methods("GET")

	// User routes
	protectedRouter.HandleFunc("/users/me", handlers.GetUser).Methods("GET")
	protectedRouter.HandleFunc("/users/sync", handlers.SyncUser).Methods("POST")
}
