package handlers

// DefaultResources lists every table exposed through the generic CRUD
// gateway, with its route path, key columns and writable fields.
func DefaultResources() []Resource {
	return []Resource{
		{
			Table:        "languages",
			Path:         "languages",
			IDColumns:    []string{"code"},
			CreateFields: []string{"code", "name", "native_name"},
			UpdateFields: []string{"name", "native_name"},
			DefaultOrder: "code ASC",
		},
		{
			Table:        "artists",
			Path:         "artists",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "name", "description", "origin"},
			UpdateFields: []string{"name", "description", "origin"},
			DefaultOrder: "created_at DESC",
		},
		{
			Table:        "albums",
			Path:         "albums",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "title", "release_year", "label", "cover_url", "primary_artist_id"},
			UpdateFields: []string{"title", "release_year", "label", "cover_url", "primary_artist_id"},
			DefaultOrder: "created_at DESC",
		},
		{
			Table:        "album_tracks",
			Path:         "album-tracks",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "disc_number", "track_number", "is_bonus", "song_id", "album_id"},
			UpdateFields: []string{"disc_number", "track_number", "is_bonus"},
			DefaultOrder: "created_at DESC",
		},
		{
			Table:        "songs",
			Path:         "songs",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "title", "release_year", "is_published", "description", "language_code", "created_by"},
			UpdateFields: []string{"title", "release_year", "is_published", "description", "language_code"},
			DefaultOrder: "updated_at DESC",
		},
		{
			Table:        "song_artists",
			Path:         "song-artists",
			IDColumns:    []string{"artist_id", "song_id"},
			CreateFields: []string{"artist_id", "song_id", "role", "is_primary"},
			UpdateFields: []string{"role", "is_primary"},
			DefaultOrder: "song_id ASC",
		},
		{
			Table:        "song_sources",
			Path:         "song-sources",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "kind", "url", "note", "song_id"},
			UpdateFields: []string{"kind", "url", "note"},
			DefaultOrder: "id ASC",
		},
		{
			Table:        "lyric_lines",
			Path:         "lyric-lines",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "line_index", "text", "t_start_ms", "t_end_ms", "song_id"},
			UpdateFields: []string{"line_index", "text", "t_start_ms", "t_end_ms"},
			DefaultOrder: "line_index ASC",
		},
		{
			Table:        "lyric_sections",
			Path:         "lyric-sections",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "song_id", "type", "section_index", "start_line", "end_line", "title"},
			UpdateFields: []string{"type", "section_index", "start_line", "end_line", "title"},
			DefaultOrder: "section_index ASC",
		},
		{
			Table:        "translations",
			Path:         "translations",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "title_trans", "notes", "is_machine", "language_code", "created_by", "song_id"},
			UpdateFields: []string{"title_trans", "notes", "is_machine", "language_code"},
			DefaultOrder: "created_at DESC",
		},
		{
			Table:        "translation_lines",
			Path:         "translation-lines",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "line_index", "text", "translation_id", "lyric_line_id"},
			UpdateFields: []string{"line_index", "text", "lyric_line_id"},
			DefaultOrder: "line_index ASC",
		},
		{
			Table:        "annotations",
			Path:         "annotations",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "start_line", "end_line", "start_char", "end_char", "body_md", "text", "start_char_index", "end_char_index", "status", "created_by", "song_id"},
			UpdateFields: []string{"start_line", "end_line", "start_char", "end_char", "body_md", "text", "start_char_index", "end_char_index", "status"},
			DefaultOrder: "created_at DESC",
		},
		{
			Table:        "annotation_comments",
			Path:         "annotation-comments",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "annotation_id", "user_id", "parent_comment_id", "body"},
			UpdateFields: []string{"body"},
			DefaultOrder: "created_at DESC",
		},
		{
			Table:        "glossary_terms",
			Path:         "glossary-terms",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "lemma", "language_code"},
			UpdateFields: []string{"lemma", "language_code"},
			DefaultOrder: "lemma ASC",
		},
		{
			Table:        "glossary_term_meanings",
			Path:         "glossary-term-meanings",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "sense_order", "title", "definition", "examples", "notes", "part_of_speech", "synonyms", "term_id"},
			UpdateFields: []string{"sense_order", "title", "definition", "examples", "notes", "part_of_speech", "synonyms"},
			DefaultOrder: "sense_order ASC",
		},
		{
			Table:        "glossary_term_lyric_lines",
			Path:         "glossary-term-lyric-lines",
			IDColumns:    []string{"id"},
			CreateFields: []string{"id", "start_char", "end_char", "lyric_line_id", "meaning_id", "term_id"},
			UpdateFields: []string{"start_char", "end_char", "meaning_id"},
			DefaultOrder: "created_at DESC",
		},
		{
			Table:          "reports",
			Path:           "reports",
			IDColumns:      []string{"id"},
			CreateFields:   []string{"id", "target_type", "target_id", "reason", "reporter_id"},
			UpdateFields:   []string{"resolved_at", "resolution", "resolved_by"},
			SkipModeration: true,
			DefaultOrder:   "created_at DESC",
		},
		{
			Table:          "favorite_songs",
			Path:           "favorite-songs",
			IDColumns:      []string{"user_id", "song_id"},
			CreateFields:   []string{"user_id", "song_id"},
			UpdateFields:   []string{},
			SkipModeration: true,
			DefaultOrder:   "created_at DESC",
		},
		{
			Table:          "notifications",
			Path:           "notifications",
			IDColumns:      []string{"id"},
			CreateFields:   []string{"id", "type", "payload", "user_id"},
			UpdateFields:   []string{"is_read"},
			SkipModeration: true,
			DefaultOrder:   "created_at DESC",
		},
	}
}
