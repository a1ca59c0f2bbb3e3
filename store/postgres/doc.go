/*
Package postgres implements the store DAO interface on top of a pgx connection
pool. All buckets share one table keyed by (bucket, id); item TTLs are stored
as an absolute expires_at timestamp and expired rows are filtered on read.
*/
package postgres
