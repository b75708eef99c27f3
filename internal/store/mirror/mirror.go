package mirror

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/identity"
	"github.com/mamo-store/backend/internal/domain/shared"
)

// Mirror is the storefront's local copy of everything it needs to keep
// working without the server: the catalog, the exchange rate, the logged-in
// user, the cart, the event log and the queue of unsynced writes.
type Mirror struct {
	db       *gorm.DB
	eventCap int
}

const (
	keyRate      = "exchange_rate"
	keyUser      = "current_user"
	keyToken     = "session_token"
	keyServerURL = "server_url"
)

type kvEntry struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value string `gorm:"type:text"`
}

func (kvEntry) TableName() string { return "kv" }

// CartItem is one cart line, keyed by product id
type CartItem struct {
	ProductID string    `gorm:"primaryKey;type:varchar(64)" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CartItem) TableName() string { return "cart_items" }

// Event is one analytics log entry
type Event struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      string    `gorm:"type:varchar(64);not null;index" json:"type"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Event) TableName() string { return "events" }

// Mutation kinds
const (
	MutationUpsert = "upsert"
	MutationDelete = "delete"
)

// Mutation is one pending catalog write awaiting sync to the server
type Mutation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind      string    `gorm:"type:varchar(16);not null" json:"kind"`
	ProductID string    `gorm:"type:varchar(64);not null;index" json:"productId"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Mutation) TableName() string { return "sync_mutations" }

// Open creates or opens a mirror database at path. An empty catalog gets
// seeded with the starter products priced at the initial exchange rate, so a
// first launch with no server still shows a full shop.
func Open(path string, eventCap int) (*Mirror, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open mirror: %w", err)
	}
	if err := db.AutoMigrate(&catalog.Product{}, &identity.User{}, &kvEntry{}, &CartItem{}, &Event{}, &Mutation{}); err != nil {
		return nil, fmt.Errorf("migrate mirror: %w", err)
	}

	m := &Mirror{db: db, eventCap: eventCap}
	if err := m.seedIfEmpty(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mirror) seedIfEmpty() error {
	var count int64
	if err := m.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rate, err := m.Rate()
	if err != nil {
		return err
	}
	seed := catalog.SeedProducts()
	catalog.RepriceAll(seed, rate)
	return m.db.Create(&seed).Error
}

// Close closes the underlying database
func (m *Mirror) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Products returns the mirrored catalog, newest first
func (m *Mirror) Products() ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := m.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Product returns one mirrored product
func (m *Mirror) Product(id string) (*catalog.Product, error) {
	var p catalog.Product
	if err := m.db.Where("id = ?", id).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ReplaceProducts swaps the whole mirrored catalog for a fresh server copy
func (m *Mirror) ReplaceProducts(products []*catalog.Product) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&catalog.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Create(&products).Error
	})
}

// UpsertProduct writes one product into the mirror
func (m *Mirror) UpsertProduct(p *catalog.Product) error {
	return m.db.Save(p).Error
}

// DeleteProduct removes one product from the mirror
func (m *Mirror) DeleteProduct(id string) error {
	return m.db.Where("id = ?", id).Delete(&catalog.Product{}).Error
}

func (m *Mirror) getKV(key string) (string, bool, error) {
	var entry kvEntry
	if err := m.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (m *Mirror) setKV(key, value string) error {
	return m.db.Save(&kvEntry{Key: key, Value: value}).Error
}

func (m *Mirror) deleteKV(key string) error {
	return m.db.Where("key = ?", key).Delete(&kvEntry{}).Error
}

// Rate returns the mirrored exchange rate, falling back to the initial rate
func (m *Mirror) Rate() (decimal.Decimal, error) {
	value, ok, err := m.getKV(keyRate)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return catalog.InitialExchangeRate, nil
	}
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return catalog.InitialExchangeRate, nil
	}
	return rate, nil
}

// SetRate stores the exchange rate
func (m *Mirror) SetRate(rate decimal.Decimal) error {
	return m.setKV(keyRate, rate.String())
}

// User returns the mirrored logged-in user, or nil when logged out
func (m *Mirror) User() (*identity.User, error) {
	value, ok, err := m.getKV(keyUser)
	if err != nil || !ok {
		return nil, err
	}
	var user identity.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return nil, fmt.Errorf("decode mirrored user: %w", err)
	}
	return &user, nil
}

// SetUser stores the logged-in user
func (m *Mirror) SetUser(user *identity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return m.setKV(keyUser, string(data))
}

// ClearUser removes the stored user and session token
func (m *Mirror) ClearUser() error {
	if err := m.deleteKV(keyUser); err != nil {
		return err
	}
	return m.deleteKV(keyToken)
}

// Token returns the stored session token, empty when absent
func (m *Mirror) Token() (string, error) {
	value, _, err := m.getKV(keyToken)
	return value, err
}

// SetToken stores the session token
func (m *Mirror) SetToken(token string) error {
	return m.setKV(keyToken, token)
}

// ServerURL returns the last server address the mirror synced against
func (m *Mirror) ServerURL() (string, error) {
	value, _, err := m.getKV(keyServerURL)
	return value, err
}

// SetServerURL stores the server address
func (m *Mirror) SetServerURL(url string) error {
	return m.setKV(keyServerURL, url)
}

// Cart returns all cart lines
func (m *Mirror) Cart() ([]CartItem, error) {
	var items []CartItem
	if err := m.db.Order("updated_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SetCartItem writes one cart line
func (m *Mirror) SetCartItem(productID string, quantity int) error {
	return m.db.Save(&CartItem{ProductID: productID, Quantity: quantity, UpdatedAt: time.Now()}).Error
}

// RemoveCartItem deletes one cart line
func (m *Mirror) RemoveCartItem(productID string) error {
	return m.db.Where("product_id = ?", productID).Delete(&CartItem{}).Error
}

// ClearCart empties the cart
func (m *Mirror) ClearCart() error {
	return m.db.Where("1 = 1").Delete(&CartItem{}).Error
}

// AppendEvent records an analytics event and trims the log to the cap,
// keeping the newest entries
func (m *Mirror) AppendEvent(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&Event{Type: eventType, Payload: string(data), CreatedAt: time.Now()}).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&Event{}).Count(&count).Error; err != nil {
			return err
		}
		if int(count) <= m.eventCap {
			return nil
		}
		excess := int(count) - m.eventCap
		var victims []uint
		if err := tx.Model(&Event{}).Order("id ASC").Limit(excess).Pluck("id", &victims).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", victims).Delete(&Event{}).Error
	})
}

// Events returns up to limit events, newest first
func (m *Mirror) Events(limit int) ([]Event, error) {
	var events []Event
	q := m.db.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// EnqueueMutation records a pending catalog write. Mutations for the same
// product coalesce: a newer write supersedes any older queued write for that
// id, and a delete wipes the queue for the id entirely.
func (m *Mirror) EnqueueMutation(kind string, p *catalog.Product, productID string) error {
	var payload string
	if p != nil {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		payload = string(data)
		productID = p.ID
	}
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&Mutation{}).Error; err != nil {
			return err
		}
		return tx.Create(&Mutation{
			Kind:      kind,
			ProductID: productID,
			Payload:   payload,
			CreatedAt: time.Now(),
		}).Error
	})
}

// PendingMutations returns queued mutations in enqueue order
func (m *Mirror) PendingMutations() ([]Mutation, error) {
	var mutations []Mutation
	if err := m.db.Order("id ASC").Find(&mutations).Error; err != nil {
		return nil, err
	}
	return mutations, nil
}

// MutationProduct decodes the product carried by an upsert mutation
func (mu *Mutation) MutationProduct() (*catalog.Product, error) {
	var p catalog.Product
	if err := json.Unmarshal([]byte(mu.Payload), &p); err != nil {
		return nil, fmt.Errorf("decode queued product: %w", err)
	}
	return &p, nil
}

// DeleteMutation removes a synced mutation from the queue
func (m *Mirror) DeleteMutation(id uint) error {
	return m.db.Where("id = ?", id).Delete(&Mutation{}).Error
}

// PendingCount returns how many mutations still await sync
func (m *Mirror) PendingCount() (int64, error) {
	var count int64
	err := m.db.Model(&Mutation{}).Count(&count).Error
	return count, err
}
