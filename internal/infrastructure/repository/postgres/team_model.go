package postgres

import "github.com/pickemhq/pickem/internal/domain/team"

type teamTableModel struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
	City string `db:"city"`
	Nick string `db:"nick"`
	Abbr string `db:"abbr"`
	Logo string `db:"logo"`
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:   row.ID,
		Name: row.Name,
		City: row.City,
		Nick: row.Nick,
		Abbr: row.Abbr,
		Logo: row.Logo,
	}
}

func teamToRow(item team.Team) teamTableModel {
	return teamTableModel{
		ID:   item.ID,
		Name: item.Name,
		City: item.City,
		Nick: item.Nick,
		Abbr: item.Abbr,
		Logo: item.Logo,
	}
}
