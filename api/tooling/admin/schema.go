package main

// schemaDDL defines the complete database schema. The admin tool applies it
// idempotently; there is no incremental migration history yet.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS "public"."users" (
	user_id       UUID        NOT NULL,
	username      TEXT        NOT NULL,
	email         TEXT        NOT NULL,
	password_hash TEXT        NOT NULL,
	groups        UUID[]      NOT NULL DEFAULT '{}',
	sys_admin     BOOLEAN     NOT NULL DEFAULT FALSE,
	enabled       BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,

	PRIMARY KEY (user_id),
	UNIQUE (username)
);

CREATE TABLE IF NOT EXISTS "public"."forms" (
	form_id                 UUID        NOT NULL,
	simple_id               TEXT        NOT NULL,
	title                   TEXT        NOT NULL,
	description             TEXT        NOT NULL DEFAULT '',
	elems                   JSONB       NOT NULL,
	can_use_form            JSONB       NOT NULL,
	data_default_privileges JSONB       NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL,

	PRIMARY KEY (form_id),
	UNIQUE (simple_id)
);

CREATE TABLE IF NOT EXISTS "public"."form_data" (
	data_id             UUID        NOT NULL,
	form_id             UUID        NOT NULL,
	entries             JSONB       NOT NULL,
	privileges          JSONB       NULL,
	has_elem_privileges BOOLEAN     NOT NULL DEFAULT FALSE,
	created_by          UUID        NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL,

	PRIMARY KEY (data_id),
	FOREIGN KEY (form_id) REFERENCES "public"."forms" (form_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS form_data_form_id_idx ON "public"."form_data" (form_id);
CREATE INDEX IF NOT EXISTS form_data_read_rule_idx ON "public"."form_data" USING GIN ((privileges -> 'read'));
`
