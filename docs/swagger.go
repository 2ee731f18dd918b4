// Package docs Region Dashboard API.
//
// Дашборд пригодности районов провинции Кёнсан-Пукто для жизни с домашними
// животными. Сервис читает открытые наборы данных (XLSX, CSV), приводит метки
// районов к каноническим именам, делит показатели на население и отдаёт
// ранжированные ряды, составной показатель загрязнения и радар-диаграмму.
//
// Спецификация регистрируется в swag из docs.go и отдаётся по /swagger/*.
package docs
