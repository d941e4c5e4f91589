package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"cravecart-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "DB_PATH", "JWT_TTL", "KAFKA_BROKERS", "KAFKA_TOPIC", "SEED_CATALOG", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "cravecart.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "cravecart.orders", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.SeedCatalog)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SEED_CATALOG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SeedCatalog)

	t.Setenv("JWT_TTL", "forever")
	_, err = Load()
	assert.Error(t, err)
}

func TestSeedAdminAndCatalog(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)

	none, err := SeedAdmin(db, "", "", discard())
	require.NoError(t, err)
	assert.Nil(t, none)

	admin, err := SeedAdmin(db, "Admin@CraveCart.io", "secret123", discard())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@cravecart.io", admin.Email)

	again, err := SeedAdmin(db, "admin@cravecart.io", "secret123", discard())
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	require.Error(t, SeedCatalog(db, nil, discard()))
	require.NoError(t, SeedCatalog(db, admin, discard()))
	require.NoError(t, SeedCatalog(db, admin, discard()))

	var restaurants, foods int64
	require.NoError(t, db.Model(&models.Restaurant{}).Count(&restaurants).Error)
	require.NoError(t, db.Model(&models.FoodItem{}).Count(&foods).Error)
	assert.Equal(t, int64(3), restaurants)
	assert.Equal(t, int64(13), foods)

	var item models.FoodItem
	require.NoError(t, db.Where("name = ?", "Vada Pav").First(&item).Error)
	assert.True(t, item.IsAvailable)
	assert.Equal(t, "30", item.Price.String())
}
