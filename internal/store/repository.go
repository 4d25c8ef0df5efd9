package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/state"
)

// DefaultBackupEvery is the number of saves between periodic backups.
const DefaultBackupEvery = 100

// Repository maps the application state onto the fixed store keys.
type Repository struct {
	kv          KeyValueStore
	log         logging.Logger
	backupEvery int
	seed        []models.Category
	now         func() time.Time

	mu sync.Mutex
}

// NewRepository creates a Repository. backupEvery <= 0 selects
// DefaultBackupEvery.
func NewRepository(kv KeyValueStore, log logging.Logger, backupEvery int) *Repository {
	if log == nil {
		log = logging.Nop()
	}
	if backupEvery <= 0 {
		backupEvery = DefaultBackupEvery
	}
	return &Repository{kv: kv, log: log, backupEvery: backupEvery, now: time.Now}
}

// WithCategorySeed sets the categories used when the stored settings carry
// none.
func (r *Repository) WithCategorySeed(categories []models.Category) *Repository {
	r.seed = categories
	return r
}

// Load reads every key. Missing or corrupt values fall back to defaults and
// corrupt ones are logged. Only an unreadable store is an error.
func (r *Repository) Load() (state.State, error) {
	s := state.Default()
	s.Settings.Categories = nil

	if data, ok, err := r.kv.Get(models.KeyTransactions); err != nil {
		return state.State{}, err
	} else if ok {
		ts, problems, err := models.DecodeTransactionsLenient(data)
		if err != nil {
			r.corrupt(models.KeyTransactions, err)
		} else {
			for _, p := range problems {
				r.log.Warn("keeping undecodable record",
					logging.F(logging.FieldKey, models.KeyTransactions),
					logging.F(logging.FieldError, p.Error()))
			}
			filled, n := models.EnsureIDs(ts)
			if n > 0 {
				r.log.Info("assigned ids to legacy records", logging.F(logging.FieldCount, n))
			}
			s.Transactions = filled
		}
	}

	if data, ok, err := r.kv.Get(models.KeyPersons); err != nil {
		return state.State{}, err
	} else if ok {
		var persons []string
		if err := json.Unmarshal(data, &persons); err != nil {
			r.corrupt(models.KeyPersons, err)
		} else if persons != nil {
			s.Persons = persons
		}
	}

	if data, ok, err := r.kv.Get(models.KeyProducts); err != nil {
		return state.State{}, err
	} else if ok {
		if !json.Valid(data) {
			r.corrupt(models.KeyProducts, errors.New("invalid JSON"))
		} else {
			s.Products = json.RawMessage(data)
		}
	}

	if data, ok, err := r.kv.Get(models.KeySettings); err != nil {
		return state.State{}, err
	} else if ok {
		var settings *models.Settings
		if err := json.Unmarshal(data, &settings); err != nil {
			r.corrupt(models.KeySettings, err)
		} else if settings != nil {
			s.Settings = *settings
		}
	}

	if s.Settings.Categories == nil && len(r.seed) > 0 {
		s.Settings.Categories = append([]models.Category(nil), r.seed...)
	}

	r.log.Debug("state loaded",
		logging.F(logging.FieldCount, len(s.Transactions)),
		logging.F("persons", len(s.Persons)))
	return s, nil
}

func (r *Repository) corrupt(key string, err error) {
	r.log.Warn("stored value is corrupt, using default",
		logging.F(logging.FieldKey, key),
		logging.F(logging.FieldError, err.Error()))
}

// Save writes every collection as a whole value. Every backupEvery-th save,
// starting with the first, also writes a snapshot under the backup key.
// A failing key does not stop the others; all failures are returned joined.
func (r *Repository) Save(s state.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := s.Products
	if len(products) == 0 {
		products = json.RawMessage("[]")
	}
	values := []struct {
		key   string
		value interface{}
	}{
		{models.KeyTransactions, s.Transactions},
		{models.KeyPersons, s.Persons},
		{models.KeyProducts, products},
		{models.KeySettings, s.Settings},
	}

	var errs []error
	for _, v := range values {
		if err := r.put(v.key, v.value); err != nil {
			errs = append(errs, err)
		}
	}

	count := r.backupCount()
	if count%r.backupEvery == 0 {
		snapshot := s.Snapshot()
		snapshot.Timestamp = r.now().UTC()
		if err := r.put(models.KeyBackup, snapshot); err != nil {
			errs = append(errs, err)
		} else {
			r.log.Info("periodic backup written", logging.F(logging.FieldCount, count))
		}
	}
	if err := r.kv.Put(models.KeyBackupCount, []byte(strconv.Itoa(count+1))); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (r *Repository) put(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.kv.Put(key, data)
}

func (r *Repository) backupCount() int {
	data, ok, err := r.kv.Get(models.KeyBackupCount)
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// LastBackup returns the most recent periodic snapshot, if any.
func (r *Repository) LastBackup() (models.Backup, bool, error) {
	data, ok, err := r.kv.Get(models.KeyBackup)
	if err != nil || !ok {
		return models.Backup{}, false, err
	}
	var b models.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return models.Backup{}, false, fmt.Errorf("decode %s: %w", models.KeyBackup, err)
	}
	return b, true, nil
}
