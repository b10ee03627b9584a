package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/elysium/internal/game/character"
)

var (
	// ErrCharacterNotFound is returned when a character lookup yields no results.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrUnknownReference is returned when a character names a catalog row or
	// account that does not exist.
	ErrUnknownReference = errors.New("character references unknown catalog entry")
)

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, account_id, name, concept, ambition, desire, sire, notes, generation,
	clan_id, predator_type_id, sect_id, location_id,
	date_of_birth, place_of_birth, embrace_date, apparent_age, created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var (
		c                             character.Character
		accountID, clanID, predatorID *int64
		sectID, locationID            *int64
	)
	err := row.Scan(
		&c.ID, &accountID, &c.Name, &c.Concept, &c.Ambition, &c.Desire, &c.Sire, &c.Notes, &c.Generation,
		&clanID, &predatorID, &sectID, &locationID,
		&c.DateOfBirth, &c.PlaceOfBirth, &c.EmbraceDate, &c.ApparentAge, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.AccountID = deref(accountID)
	c.ClanID = deref(clanID)
	c.PredatorTypeID = deref(predatorID)
	c.SectID = deref(sectID)
	c.LocationID = deref(locationID)
	return &c, nil
}

// Create inserts the character sheet and every rating, merit, and flaw row
// in a single transaction.
//
// Precondition: c was produced by character.FromBuild; c.ID is zero.
// Postcondition: Returns the stored character with ID and timestamps set, or
// ErrUnknownReference when a referenced id is missing. Nothing is written on error.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out, err := scanCharacter(tx.QueryRow(ctx, `
		INSERT INTO characters
			(account_id, name, concept, ambition, desire, sire, notes, generation,
			 clan_id, predator_type_id, sect_id, location_id,
			 date_of_birth, place_of_birth, embrace_date, apparent_age)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING `+characterColumns,
		nullID(c.AccountID), c.Name, c.Concept, c.Ambition, c.Desire, c.Sire, c.Notes, c.Generation,
		nullID(c.ClanID), nullID(c.PredatorTypeID), nullID(c.SectID), nullID(c.LocationID),
		dateOnly(c.DateOfBirth), c.PlaceOfBirth, dateOnly(c.EmbraceDate), c.ApparentAge,
	))
	if err != nil {
		return nil, classify("inserting character", err)
	}

	batch := &pgx.Batch{}
	queueRatings(batch, "character_attributes", "attribute_id", out.ID, c.Attributes)
	queueRatings(batch, "character_skills", "skill_id", out.ID, c.Skills)
	queueRatings(batch, "character_disciplines", "discipline_id", out.ID, c.Disciplines)
	for id, rating := range c.Backgrounds {
		batch.Queue(`INSERT INTO character_backgrounds (character_id, background_id, rating, details)
			VALUES ($1, $2, $3, $4)`, out.ID, id, rating, c.BackgroundDetails[id])
	}
	for _, id := range c.Merits {
		batch.Queue(`INSERT INTO character_merits (character_id, merit_id) VALUES ($1, $2)`, out.ID, id)
	}
	for _, id := range c.Flaws {
		batch.Queue(`INSERT INTO character_flaws (character_id, flaw_id) VALUES ($1, $2)`, out.ID, id)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, classify("inserting character traits", err)
		}
	}

	if err := loadTraits(ctx, tx, out); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing character: %w", err)
	}
	return out, nil
}

func queueRatings(batch *pgx.Batch, table, column string, characterID int64, ratings map[int64]int) {
	q := fmt.Sprintf(`INSERT INTO %s (character_id, %s, rating) VALUES ($1, $2, $3)`, table, column)
	for id, rating := range ratings {
		if rating > 0 {
			batch.Queue(q, characterID, id, rating)
		}
	}
}

// GetByID retrieves a character with all of its traits.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if err := loadTraits(ctx, r.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns character headers ordered by name. accountID 0 lists every
// character. Rating maps are left nil; use GetByID for the full sheet.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context, accountID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE $1::bigint = 0 OR account_id = $1
		 ORDER BY name ASC, id ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// UpdateProfile replaces the narrative fields of a character. Traits are not touched.
//
// Precondition: p must pass Profile.Validate.
// Postcondition: Returns ErrCharacterNotFound when no row matches id.
func (r *CharacterRepository) UpdateProfile(ctx context.Context, id int64, p character.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Generation == 0 {
		p.Generation = character.DefaultGeneration
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			name = $2, concept = $3, ambition = $4, desire = $5, sire = $6, notes = $7,
			generation = $8, location_id = $9, date_of_birth = $10, place_of_birth = $11,
			embrace_date = $12, apparent_age = $13, updated_at = NOW()
		WHERE id = $1`,
		id, p.Name, p.Concept, p.Ambition, p.Desire, p.Sire, p.Notes,
		p.Generation, nullID(p.LocationID), dateOnly(p.DateOfBirth), p.PlaceOfBirth,
		dateOnly(p.EmbraceDate), p.ApparentAge,
	)
	if err != nil {
		return classify("updating character", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character; trait rows and story sessions cascade.
//
// Postcondition: Returns ErrCharacterNotFound when no row matches id.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadTraits(ctx context.Context, q querier, c *character.Character) error {
	var err error
	if c.Attributes, err = loadRatings(ctx, q, "character_attributes", "attribute_id", c.ID); err != nil {
		return err
	}
	if c.Skills, err = loadRatings(ctx, q, "character_skills", "skill_id", c.ID); err != nil {
		return err
	}
	if c.Disciplines, err = loadRatings(ctx, q, "character_disciplines", "discipline_id", c.ID); err != nil {
		return err
	}

	rows, err := q.Query(ctx,
		`SELECT background_id, rating, details FROM character_backgrounds WHERE character_id = $1`, c.ID)
	if err != nil {
		return fmt.Errorf("querying character backgrounds: %w", err)
	}
	c.Backgrounds = make(map[int64]int)
	c.BackgroundDetails = make(map[int64]string)
	for rows.Next() {
		var (
			id      int64
			rating  int
			details string
		)
		if err := rows.Scan(&id, &rating, &details); err != nil {
			rows.Close()
			return fmt.Errorf("scanning character background: %w", err)
		}
		c.Backgrounds[id] = rating
		if details != "" {
			c.BackgroundDetails[id] = details
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading character backgrounds: %w", err)
	}

	if c.Merits, err = loadIDs(ctx, q, `SELECT merit_id FROM character_merits WHERE character_id = $1 ORDER BY merit_id`, c.ID); err != nil {
		return err
	}
	if c.Flaws, err = loadIDs(ctx, q, `SELECT flaw_id FROM character_flaws WHERE character_id = $1 ORDER BY flaw_id`, c.ID); err != nil {
		return err
	}
	return nil
}

func loadRatings(ctx context.Context, q querier, table, column string, characterID int64) (map[int64]int, error) {
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT %s, rating FROM %s WHERE character_id = $1`, column, table), characterID)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var (
			id     int64
			rating int
		)
		if err := rows.Scan(&id, &rating); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		out[id] = rating
	}
	return out, rows.Err()
}

func loadIDs(ctx context.Context, q querier, sql string, args ...any) ([]int64, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collecting ids: %w", err)
	}
	return ids, nil
}

func classify(action string, err error) error {
	if isForeignKeyError(err) {
		return fmt.Errorf("%s: %w", action, ErrUnknownReference)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func nullID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// dateOnly truncates t to midnight UTC, matching the DATE columns.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
