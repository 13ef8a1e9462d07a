package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder построитель запросов с плейсхолдерами PostgreSQL ($1, $2, ...)
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select начинает SELECT запрос
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert начинает INSERT запрос
func Insert(table string) squirrel.InsertBuilder {
	return builder.Insert(table)
}

// Update начинает UPDATE запрос
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete начинает DELETE запрос
func Delete(table string) squirrel.DeleteBuilder {
	return builder.Delete(table)
}

// AdvisoryXactLock строит запрос, берущий транзакционную advisory-блокировку по строковому ключу.
// Блокировка снимается автоматически при COMMIT/ROLLBACK.
func AdvisoryXactLock(key string) squirrel.SelectBuilder {
	return builder.Select().Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))", key))
}
