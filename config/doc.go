// Package config loads and validates shelfserve configuration.
//
// Configuration is merged from four sources in order of precedence
// (highest first): command-line flags, environment variables with the
// SHELFSERVE_ prefix, YAML config files, built-in defaults.
//
// Example config file:
//
//	server:
//	  address: 127.0.0.1
//	  port: 1131
//	root_dir: /srv/books
//	tls:
//	  cert_file: /etc/shelfserve/cert.pem
//	  key_file: /etc/shelfserve/key.pem
//	auth:
//	  username: myuser
//	  password_hash: $2a$10$...
//	cache:
//	  toc_size: 10
//	  content_size: 200
//	log:
//	  level: info
//
// TLS and auth are optional, but each requires its full pair: a cert file
// without a key file (or a username without a password hash) fails
// validation.
package config
