package cqldao

// LinkSchema holds the statements that create the tables used by LinkDAO.
var LinkSchema = []string{
	`CREATE TABLE IF NOT EXISTS link_by_code (
		code text,
		id bigint,
		target_url text,
		owner_id bigint,
		admin_key_hash blob,
		created_date bigint,
		PRIMARY KEY (code)
	)`,
	`CREATE TABLE IF NOT EXISTS link_by_id (
		id bigint,
		code text,
		PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS link_by_owner (
		owner_id bigint,
		id bigint,
		code text,
		PRIMARY KEY (owner_id, id)
	) WITH CLUSTERING ORDER BY (id DESC)`,
	`CREATE TABLE IF NOT EXISTS link_clicks (
		code text,
		clicks counter,
		PRIMARY KEY (code)
	)`,
}

// UserSchema holds the statements that create the tables used by UserDAO.
var UserSchema = []string{
	`CREATE TABLE IF NOT EXISTS user_by_name (
		username text,
		user_id bigint,
		PRIMARY KEY (username)
	)`,
	`CREATE TABLE IF NOT EXISTS user_account (
		user_id bigint,
		username text,
		password_hash blob,
		is_admin boolean,
		created_date bigint,
		PRIMARY KEY (user_id)
	)`,
}

// CreateSchema creates the link and user tables if they don't exist.
func CreateSchema(session *GocqlSession) error {
	checkSession(session)
	stmts := append(append([]string{}, LinkSchema...), UserSchema...)
	for _, stmt := range stmts {
		if err := session.Query(stmt).Exec(); err != nil {
			return err
		}
	}
	return nil
}
