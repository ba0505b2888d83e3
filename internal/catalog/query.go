package catalog

import (
	"strconv"
	"strings"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

const productColumns = "id, nombre, descripcion, precio, stock_disponible"

// predicates accumulates WHERE conditions; "?" in a condition is replaced by
// the positional placeholder of its argument.
type predicates struct {
	conds []string
	args  []any
}

func (p *predicates) add(cond string, arg any) {
	p.args = append(p.args, arg)
	p.conds = append(p.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(p.args))))
}

func (p *predicates) where() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conds, " AND ")
}

type searchQuery struct {
	count     string
	list      string
	countArgs []any
	listArgs  []any
}

func buildSearchQuery(f domain.ProductFilter) searchQuery {
	var p predicates

	if f.Keyword != "" {
		p.add("(nombre ILIKE ? OR descripcion ILIKE ?)", "%"+escapeLike(f.Keyword)+"%")
	}
	if f.MinPrice != nil {
		p.add("precio >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		p.add("precio <= ?", *f.MaxPrice)
	}

	order := " ORDER BY id"
	if f.Keyword != "" {
		order = " ORDER BY precio, id"
	}

	n := len(p.args)
	listArgs := append(append([]any{}, p.args...), f.Size, domain.Offset(f.Page, f.Size))

	return searchQuery{
		count:     "SELECT COUNT(*) FROM productos" + p.where(),
		countArgs: p.args,
		list: "SELECT " + productColumns + " FROM productos" + p.where() + order +
			" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2),
		listArgs: listArgs,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
