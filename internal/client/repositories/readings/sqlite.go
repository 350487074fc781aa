package readings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/dbx"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
)

const selectColumns = `SELECT id, value, units, name, comment, snack_pass, source, timestamp,
	color, glucose_level, synced, photo_uri, tags, profile_id FROM readings`

const upsertQuery = `
	INSERT INTO readings (id, value, units, name, comment, snack_pass, source, timestamp,
		color, glucose_level, synced, photo_uri, tags, profile_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		value = excluded.value,
		units = excluded.units,
		name = excluded.name,
		comment = excluded.comment,
		snack_pass = excluded.snack_pass,
		source = excluded.source,
		timestamp = excluded.timestamp,
		color = excluded.color,
		glucose_level = excluded.glucose_level,
		synced = excluded.synced,
		photo_uri = excluded.photo_uri,
		tags = excluded.tags,
		profile_id = excluded.profile_id`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, common.ErrLocalStorage, err)
}

func (r *SQLiteRepository) All(ctx context.Context) iter.Seq2[models.Reading, error] {
	return r.query(ctx, "list readings", selectColumns+` ORDER BY timestamp DESC`)
}

func (r *SQLiteRepository) ByOwner(ctx context.Context, name string) iter.Seq2[models.Reading, error] {
	return r.query(ctx, "list readings by owner", selectColumns+` WHERE name = ? ORDER BY timestamp DESC`, name)
}

func (r *SQLiteRepository) query(ctx context.Context, op, q string, args ...any) iter.Seq2[models.Reading, error] {
	return func(yield func(models.Reading, error) bool) {
		rows, err := r.db.QueryContext(ctx, q, args...)
		if err != nil {
			yield(models.Reading{}, storageErr(op, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rd, err := scanReading(rows)
			if err != nil {
				yield(models.Reading{}, storageErr(op, err))
				return
			}
			if !yield(rd, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Reading{}, storageErr(op, err))
		}
	}
}

func (r *SQLiteRepository) ByID(ctx context.Context, id string) (*models.Reading, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rd, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get reading[%s]", id), err)
	}
	return &rd, nil
}

func (r *SQLiteRepository) InsertOrReplace(ctx context.Context, rd models.Reading) error {
	if err := upsert(ctx, r.db, rd); err != nil {
		return storageErr("upsert reading", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertOrReplaceMany(ctx context.Context, rs []models.Reading) error {
	if len(rs) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, rd := range rs {
			if err := upsert(ctx, tx, rd); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("upsert readings", err)
	}
	return nil
}

func upsert(ctx context.Context, db dbx.DBTX, rd models.Reading) error {
	_, err := db.ExecContext(ctx, upsertQuery,
		rd.ID, rd.Value, string(rd.Unit), rd.Name, rd.Comment, rd.SnackPass, rd.Source, rd.Timestamp,
		rd.Color, rd.GlucoseLevel, rd.Synced, rd.PhotoURI, rd.Tags, rd.ProfileID)
	return err
}

func (r *SQLiteRepository) Update(ctx context.Context, rd models.Reading) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE readings SET value = ?, units = ?, name = ?, comment = ?, snack_pass = ?, source = ?,
			timestamp = ?, color = ?, glucose_level = ?, synced = ?, photo_uri = ?, tags = ?, profile_id = ?
		WHERE id = ?`,
		rd.Value, string(rd.Unit), rd.Name, rd.Comment, rd.SnackPass, rd.Source,
		rd.Timestamp, rd.Color, rd.GlucoseLevel, rd.Synced, rd.PhotoURI, rd.Tags, rd.ProfileID, rd.ID)
	if err != nil {
		return storageErr(fmt.Sprintf("update reading[%s]", rd.ID), err)
	}
	return requireRow(res, rd.ID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, rd models.Reading) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ?`, rd.ID); err != nil {
		return storageErr(fmt.Sprintf("delete reading[%s]", rd.ID), err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM readings`); err != nil {
		return storageErr("delete readings", err)
	}
	return nil
}

func (r *SQLiteRepository) Unsynced(ctx context.Context) ([]models.Reading, error) {
	return Collect(r.query(ctx, "list unsynced readings", selectColumns+` WHERE synced = 0 ORDER BY timestamp ASC`))
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE readings SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return storageErr(fmt.Sprintf("mark reading[%s] synced", id), err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings`).Scan(&n); err != nil {
		return 0, storageErr("count readings", err)
	}
	return n, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("reading[%s]: %w", id, common.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(s scanner) (models.Reading, error) {
	var (
		rd                          models.Reading
		units                       string
		comment, color, photo, tags sql.NullString
		level                       sql.NullInt64
	)
	err := s.Scan(&rd.ID, &rd.Value, &units, &rd.Name, &comment, &rd.SnackPass, &rd.Source, &rd.Timestamp,
		&color, &level, &rd.Synced, &photo, &tags, &rd.ProfileID)
	if err != nil {
		return models.Reading{}, err
	}

	rd.Unit, _ = glucose.ParseUnit(units)
	rd.Comment = nullString(comment)
	rd.Color = nullString(color)
	rd.PhotoURI = nullString(photo)
	rd.Tags = nullString(tags)
	if level.Valid {
		v := int(level.Int64)
		rd.GlucoseLevel = &v
	}
	return rd, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
