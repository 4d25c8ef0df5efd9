package state

import (
	"fmt"

	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/validation"
)

// Action is one state transition. Actions never modify the state they are
// given.
type Action interface {
	Name() string
	apply(r *Reducer, s State) (State, error)
}

// Reducer applies actions under a negative balance policy.
type Reducer struct {
	policy ledger.Policy
	log    logging.Logger
}

// NewReducer creates a Reducer. An empty policy selects ledger.DefaultPolicy.
func NewReducer(policy ledger.Policy, log logging.Logger) *Reducer {
	if policy == "" {
		policy = ledger.DefaultPolicy
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Reducer{policy: policy, log: log}
}

// Policy returns the negative balance policy in force.
func (r *Reducer) Policy() ledger.Policy {
	return r.policy
}

// Reduce returns the state after a, or s unchanged and the reason a was
// refused.
func (r *Reducer) Reduce(s State, a Action) (State, error) {
	next, err := a.apply(r, s)
	if err != nil {
		r.log.Debug("action refused",
			logging.F(logging.FieldOperation, a.Name()),
			logging.F(logging.FieldError, err.Error()))
		return s, err
	}
	return next, nil
}

// AddPerson registers a new person.
type AddPerson struct {
	Person string
}

func (a AddPerson) Name() string { return "add_person" }

func (a AddPerson) apply(r *Reducer, s State) (State, error) {
	name, err := validation.PersonName(a.Person)
	if err != nil {
		return s, err
	}
	if s.HasPerson(name) {
		return s, fmt.Errorf("person %q: %w", name, ledgererror.ErrDuplicate)
	}
	next := s.Clone()
	next.Persons = append(next.Persons, name)
	r.log.Info("person added", logging.F(logging.FieldPerson, name))
	return next, nil
}

// DeletePerson removes a person no transaction references.
type DeletePerson struct {
	Person string
}

func (a DeletePerson) Name() string { return "delete_person" }

func (a DeletePerson) apply(r *Reducer, s State) (State, error) {
	if !s.HasPerson(a.Person) {
		return s, fmt.Errorf("person %q: %w", a.Person, ledgererror.ErrNotFound)
	}
	for _, tx := range s.Transactions {
		if tx != nil && models.Involves(tx, a.Person) {
			return s, fmt.Errorf("person %q is used by transaction %s: %w", a.Person, tx.Head().ID, ledgererror.ErrInUse)
		}
	}
	next := s.Clone()
	next.Persons = next.Persons[:0]
	for _, p := range s.Persons {
		if p != a.Person {
			next.Persons = append(next.Persons, p)
		}
	}
	r.log.Info("person deleted", logging.F(logging.FieldPerson, a.Person))
	return next, nil
}

// AppendTransactions adds records as one atomic batch.
type AppendTransactions struct {
	Records models.Transactions
	// Confirmed acknowledges a negative resulting balance.
	Confirmed bool
}

func (a AppendTransactions) Name() string { return "append_transactions" }

func (a AppendTransactions) apply(r *Reducer, s State) (State, error) {
	if len(a.Records) == 0 {
		return s, &ledgererror.ValidationError{Field: "transactions", Reason: "batch is empty"}
	}
	records, _ := models.EnsureIDs(a.Records)
	if err := validation.Transactions(records); err != nil {
		return s, err
	}
	if err := s.knownParties(records...); err != nil {
		return s, err
	}
	seen := map[string]bool{}
	for _, tx := range records {
		id := tx.Head().ID
		if seen[id] || models.IndexOf(s.Transactions, id) >= 0 {
			return s, fmt.Errorf("transaction %s: %w", id, ledgererror.ErrDuplicate)
		}
		seen[id] = true
	}
	if err := r.policy.Check(s.Balances(), records, a.Confirmed); err != nil {
		return s, err
	}

	next := s.Clone()
	next.Transactions = append(next.Transactions, records...)
	for _, tx := range records {
		r.logRecord("transaction added", tx)
	}
	return next, nil
}

// EditTransaction replaces the record sharing Record's ID. The type of a
// record cannot change.
type EditTransaction struct {
	Record    models.Transaction
	Confirmed bool
}

func (a EditTransaction) Name() string { return "edit_transaction" }

func (a EditTransaction) apply(r *Reducer, s State) (State, error) {
	if a.Record == nil {
		return s, &ledgererror.ValidationError{Field: "transaction", Reason: "is missing"}
	}
	id := a.Record.Head().ID
	i := models.IndexOf(s.Transactions, id)
	if i < 0 {
		return s, fmt.Errorf("transaction %q: %w", id, ledgererror.ErrNotFound)
	}
	old := s.Transactions[i]
	if old.Kind() != a.Record.Kind() {
		return s, &ledgererror.ValidationError{Type: string(old.Kind()), Field: "type", Reason: "cannot change to " + string(a.Record.Kind())}
	}
	if err := validation.Transaction(a.Record); err != nil {
		return s, err
	}
	if err := s.knownParties(a.Record); err != nil {
		return s, err
	}

	without := make(models.Transactions, 0, len(s.Transactions)-1)
	without = append(without, s.Transactions[:i]...)
	without = append(without, s.Transactions[i+1:]...)
	balances := ledger.CalculateBalances(s.Persons, without)
	if err := r.policy.CheckReplacement(balances, old, a.Record, a.Confirmed); err != nil {
		return s, err
	}

	next := s.Clone()
	next.Transactions[i] = a.Record
	r.logRecord("transaction updated", a.Record)
	return next, nil
}

// DeleteTransaction removes the record with ID.
type DeleteTransaction struct {
	ID string
}

func (a DeleteTransaction) Name() string { return "delete_transaction" }

func (a DeleteTransaction) apply(r *Reducer, s State) (State, error) {
	i := models.IndexOf(s.Transactions, a.ID)
	if i < 0 {
		return s, fmt.Errorf("transaction %q: %w", a.ID, ledgererror.ErrNotFound)
	}
	next := s.Clone()
	removed := next.Transactions[i]
	next.Transactions = append(next.Transactions[:i], next.Transactions[i+1:]...)
	r.logRecord("transaction deleted", removed)
	return next, nil
}

// knownParties checks that every party of records is a listed person.
func (s State) knownParties(records ...models.Transaction) error {
	for _, tx := range records {
		for _, p := range tx.Parties() {
			if !s.HasPerson(p) {
				return fmt.Errorf("person %q: %w", p, ledgererror.ErrNotFound)
			}
		}
	}
	return nil
}

func (r *Reducer) logRecord(msg string, tx models.Transaction) {
	fields := []logging.Field{
		logging.F(logging.FieldTransactionID, tx.Head().ID),
		logging.F(logging.FieldType, string(tx.Kind())),
		logging.F(logging.FieldUser, tx.Head().User),
	}
	if c, amount, ok := ledger.AmountOf(tx); ok {
		fields = append(fields,
			logging.F(logging.FieldAmount, amount.String()),
			logging.F(logging.FieldCurrency, string(c)))
	}
	if parties := tx.Parties(); len(parties) > 0 {
		fields = append(fields, logging.F(logging.FieldPerson, parties))
	}
	r.log.Info(msg, fields...)
}
