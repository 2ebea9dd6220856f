package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hooked-app/hooked-backend/internal/projects/domain"
)

// projectDoc is the stored shape of a project. Booleans are encoded as 0/1
// integers; the encoding never leaves this package.
type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AccountID   string             `bson:"account_id"`
	DateTime    int64              `bson:"date_time"`
	SentDate    *int64             `bson:"sent_date,omitempty"`
	ImagePath   string             `bson:"image_path"`
	IsSent      int32              `bson:"is_sent"`
	Attempts    int32              `bson:"attempts"`
	Grade       string             `bson:"grade"`
	IsActive    int32              `bson:"is_active"`
	Coordinates []coordinateDoc    `bson:"coordinates"`
	Style       []string           `bson:"style"`
	Holds       []string           `bson:"holds"`
}

type coordinateDoc struct {
	Lat  float64  `bson:"lat"`
	Lng  float64  `bson:"lng"`
	Note []string `bson:"note"`
}

func toDoc(p domain.Project) projectDoc {
	doc := projectDoc{
		AccountID: p.AccountID,
		DateTime:  p.DateTime,
		SentDate:  p.SentDate,
		ImagePath: p.ImagePath,
		IsSent:    boolToInt(p.IsSent),
		Attempts:  p.Attempts,
		Grade:     p.Grade,
		IsActive:  boolToInt(p.IsActive),
		Style:     p.Style,
		Holds:     p.Holds,
	}

	if p.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(p.ID); err == nil {
			doc.ID = oid
		}
	}

	doc.Coordinates = make([]coordinateDoc, 0, len(p.Coordinates))
	for _, c := range p.Coordinates {
		doc.Coordinates = append(doc.Coordinates, coordinateDoc(c))
	}

	return doc
}

func fromDoc(doc projectDoc) domain.Project {
	p := domain.Project{
		AccountID: doc.AccountID,
		DateTime:  doc.DateTime,
		SentDate:  doc.SentDate,
		ImagePath: doc.ImagePath,
		IsSent:    doc.IsSent == 1,
		Attempts:  doc.Attempts,
		Grade:     doc.Grade,
		IsActive:  doc.IsActive == 1,
		Style:     doc.Style,
		Holds:     doc.Holds,
	}

	if !doc.ID.IsZero() {
		p.ID = doc.ID.Hex()
	}

	p.Coordinates = make([]domain.Coordinate, 0, len(doc.Coordinates))
	for _, c := range doc.Coordinates {
		p.Coordinates = append(p.Coordinates, domain.Coordinate(c))
	}

	return p
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
