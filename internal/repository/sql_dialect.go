package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// 多语言 JSON 列参与模糊搜索的语言键
var localizedJSONSearchKeys = []string{"zh-CN", "zh-TW", "en-US"}

// dbDialectName 当前连接的方言名，拿不到时按 sqlite 处理
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	if name := strings.ToLower(strings.TrimSpace(db.Dialector.Name())); name != "" {
		return name
	}
	return "sqlite"
}

func isPostgres(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	}
	return false
}

// jsonTextExpr 提取 JSON 列中某语言键的文本值，postgres 与 sqlite 语法不同
func jsonTextExpr(db *gorm.DB, column, key string) string {
	return jsonTextExprByDialect(dbDialectName(db), column, key)
}

func jsonTextExprByDialect(dialect, column, key string) string {
	if isPostgres(dialect) {
		// 先转 jsonb 再用 ->> 取文本
		return fmt.Sprintf("(%s::jsonb ->> '%s')", column, key)
	}
	// sqlite 走 json_extract；键名带引号，zh-CN 里的连字符才不会被当成路径语法
	return fmt.Sprintf("json_extract(%s, '$.\"%s\"')", column, key)
}

// buildLocalizedLikeCondition 拼出普通列 + 多语言 JSON 列的 LIKE 条件，
// 返回条件串和占位参数个数
func buildLocalizedLikeCondition(db *gorm.DB, plainColumns, jsonColumns []string) (string, int) {
	return buildLocalizedLikeConditionByDialect(dbDialectName(db), plainColumns, jsonColumns)
}

func buildLocalizedLikeConditionByDialect(dialect string, plainColumns, jsonColumns []string) (string, int) {
	operator := likeOperatorByDialect(dialect)
	parts := make([]string, 0, len(plainColumns)+len(jsonColumns)*len(localizedJSONSearchKeys))
	argCount := 0

	appendPart := func(expr string) {
		parts = append(parts, fmt.Sprintf("%s %s ?", expr, operator))
		argCount++
	}

	for _, column := range plainColumns {
		if trimmed := strings.TrimSpace(column); trimmed != "" {
			appendPart(trimmed)
		}
	}
	for _, column := range jsonColumns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		for _, key := range localizedJSONSearchKeys {
			appendPart(jsonTextExprByDialect(dialect, trimmed, key))
		}
	}

	return strings.Join(parts, " OR "), argCount
}

// postgres 用 ILIKE 做大小写无关匹配
func likeOperatorByDialect(dialect string) string {
	if isPostgres(dialect) {
		return "ILIKE"
	}
	return "LIKE"
}

// repeatLikeArgs 按条件个数复制同一个 LIKE 参数
func repeatLikeArgs(like string, count int) []any {
	args := make([]any, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
