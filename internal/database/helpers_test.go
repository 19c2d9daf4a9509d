package database

import (
	"labscan/internal/types"
)

func fullRecord() types.PartialRecord {
	return types.PartialRecord{
		Hemoglobin: types.Float(135.5),
		WBC:        types.Float(6.2),
		Platelets:  types.Float(250),
		RBC:        types.Float(4.8),
		SampleDate: day(2023, 11, 3),
	}
}
