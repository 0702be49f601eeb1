package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/database"
	"github.com/doerhub/doerhub-backend/internal/logger"
	"github.com/doerhub/doerhub-backend/internal/repository"
	"github.com/doerhub/doerhub-backend/internal/security"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "")

	oldSealer, err := security.NewSealerFromHex(cfg.BankDetailsKey)
	if err != nil {
		log.Fatal().Err(err).Msg("BANK_DETAILS_KEY must hold the current key")
	}

	// ─── CLI Input ─────────────────────────────────────────────────────
	fmt.Println("=== Re-encrypt Bank Details ===")

	newKey, err := promptKey("Enter new key (64 hex chars): ")
	if err != nil {
		fmt.Println("Error reading key")
		return
	}
	confirm, err := promptKey("Repeat new key: ")
	if err != nil {
		fmt.Println("Error reading key")
		return
	}
	if newKey != confirm {
		fmt.Println("Error: keys do not match")
		return
	}
	if strings.EqualFold(newKey, cfg.BankDetailsKey) {
		fmt.Println("Error: new key equals the current key")
		return
	}

	newSealer, err := security.NewSealerFromHex(newKey)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	bankRepo := repository.NewBankDetailsRepository(pool)

	rows, err := bankRepo.ListSealed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list bank details")
	}

	rekeyed, failed := 0, 0
	for _, row := range rows {
		resealed, err := rekey(oldSealer, newSealer, row.Sealed, row.UserID[:])
		if err != nil {
			failed++
			log.Error().Err(err).Str("user_id", row.UserID.String()).Msg("Failed to re-encrypt row")
			continue
		}
		if err := bankRepo.ReplaceSealed(ctx, row.UserID, resealed); err != nil {
			failed++
			log.Error().Err(err).Str("user_id", row.UserID.String()).Msg("Failed to store re-encrypted row")
			continue
		}
		rekeyed++
	}

	fmt.Printf("\nRe-encrypted %d of %d rows (%d failed)\n", rekeyed, len(rows), failed)
	if failed > 0 {
		fmt.Println("Keep the old key until the failed rows are fixed and the tool is rerun.")
		os.Exit(1)
	}
	fmt.Println("Update BANK_DETAILS_KEY to the new key and restart the server.")
}

func promptKey(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// rekey opens a value with the old key and seals it with the new one. Rows
// already sealed with the new key are passed through so a rerun after a
// partial failure is safe.
func rekey(oldSealer, newSealer *security.Sealer, sealed, aad []byte) ([]byte, error) {
	plain, err := oldSealer.Open(sealed, aad)
	if err != nil {
		if _, newErr := newSealer.Open(sealed, aad); newErr == nil {
			return sealed, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	return newSealer.Seal(plain, aad)
}
